// Package cli implements the command-line interface for the atlas tool.
//
// # Overview
//
// The atlas CLI collects device and system information snapshots:
// platform identity, CPU, memory, disk, and network facts, serialized
// as JSON, YAML, or a flat table.
//
// # Commands
//
// collect - Capture a snapshot:
//
//	atlas collect [--cpu] [--memory] [--disk] [--network] [--platform]
//	              [--speed-test] [--output FILE] [--format json|yaml|table]
//
// With no domain flags every domain is collected. Domains that cannot
// be read are omitted from the snapshot rather than failing the run.
// The optional --speed-test flag sends echo probes to an external
// target; everything else is passive.
//
// domains - List the collectable domains:
//
//	atlas domains [--format json|yaml|table]
//
// render - Re-emit a saved snapshot in another format:
//
//	atlas render snapshot.json --format yaml
//
// The input format follows the file extension (.json, .yaml, .yml).
//
// # Global Flags
//
//	--output, -o   Output file path (default: stdout)
//	--format       Output format: json, yaml, table (default: json)
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Environment
//
// Flag defaults can come from ATLAS_OUTPUT, ATLAS_FORMAT,
// ATLAS_PING_TARGET, ATLAS_SPEED_TEST, ATLAS_PUBLIC_IP,
// ATLAS_SPEED_TEST_TIMEOUT, and LOG_LEVEL.
package cli
