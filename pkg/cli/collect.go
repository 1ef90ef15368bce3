/*
Copyright © 2025 Atlas Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/frostleo/atlas/pkg/collector"
	"github.com/frostleo/atlas/pkg/probe"
	"github.com/frostleo/atlas/pkg/report"
	"github.com/frostleo/atlas/pkg/serializer"
)

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Collect a device information snapshot",
		Description: `Collect a snapshot of device and system information including:
  - Platform identity (OS, kernel, machine identifier)
  - CPU identity and current utilization
  - Memory and swap usage
  - Mounted partitions with usage and disk I/O counters
  - Network interfaces, addresses, and traffic counters

By default every domain is collected. Selecting one or more domain flags
restricts collection to those domains. Domains that cannot be read are
omitted from the snapshot rather than failing the run.

The snapshot can be output in JSON, YAML, or table format.

# Active Network Probing

Passive network enumeration never sends traffic. Use --speed-test to
also measure echo latency and best-effort throughput against an external
target, and --public-ip to resolve the externally visible address:

  atlas collect --network --speed-test --ping-target example.com

# Examples

Full snapshot to stdout as JSON:
  atlas collect

Only CPU and memory, as YAML, into a file:
  atlas collect --cpu --memory --format yaml --output snap.yaml

Everything including the active network test, bounded to ten seconds:
  atlas collect --speed-test --timeout 10s`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "platform",
				Usage: "Collect platform identity",
			},
			&cli.BoolFlag{
				Name:  "cpu",
				Usage: "Collect CPU information",
			},
			&cli.BoolFlag{
				Name:  "memory",
				Usage: "Collect memory information",
			},
			&cli.BoolFlag{
				Name:  "disk",
				Usage: "Collect disk information",
			},
			&cli.BoolFlag{
				Name:  "network",
				Usage: "Collect network information",
			},
			&cli.BoolFlag{
				Name:  "skip-platform",
				Usage: "Exclude platform identity from the snapshot",
			},
			&cli.BoolFlag{
				Name:  "skip-cpu",
				Usage: "Exclude CPU information from the snapshot",
			},
			&cli.BoolFlag{
				Name:  "skip-memory",
				Usage: "Exclude memory information from the snapshot",
			},
			&cli.BoolFlag{
				Name:  "skip-disk",
				Usage: "Exclude disk information from the snapshot",
			},
			&cli.BoolFlag{
				Name:  "skip-network",
				Usage: "Exclude network information from the snapshot",
			},
			&cli.BoolFlag{
				Name:    "speed-test",
				Usage:   "Run the active network speed test (implies --network unless other domains are selected)",
				Sources: cli.EnvVars("ATLAS_SPEED_TEST"),
			},
			&cli.BoolFlag{
				Name:    "public-ip",
				Usage:   "Resolve the externally visible IP address",
				Sources: cli.EnvVars("ATLAS_PUBLIC_IP"),
			},
			&cli.StringFlag{
				Name:    "ping-target",
				Usage:   "Host for the speed test echo probe (default: locale appropriate)",
				Sources: cli.EnvVars("ATLAS_PING_TARGET"),
			},
			&cli.DurationFlag{
				Name:    "speed-test-timeout",
				Usage:   "Bound on the active speed test",
				Value:   5 * time.Second,
				Sources: cli.EnvVars("ATLAS_SPEED_TEST_TIMEOUT"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Bound on the whole collection (0 means none)",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// Parse output format
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			sel := selectionFromFlags(cmd)

			if timeout := cmd.Duration("timeout"); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			factory := probe.NewDefaultFactory(
				probe.WithNetworkOptions(probe.NetworkOptions{
					SpeedTest:        cmd.Bool("speed-test"),
					PublicIPLookup:   cmd.Bool("public-ip"),
					PingTarget:       cmd.String("ping-target"),
					SpeedTestTimeout: cmd.Duration("speed-test-timeout"),
				}),
			)

			snap, err := collector.New(collector.WithFactory(factory)).Collect(ctx, sel)
			if err != nil {
				return fmt.Errorf("failed to collect snapshot: %w", err)
			}

			out := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeQuietly(out)

			if err := out.Serialize(ctx, snap); err != nil {
				return fmt.Errorf("failed to serialize snapshot: %w", err)
			}
			return nil
		},
	}
}

// selectionFromFlags maps domain flags onto a selection. No positive
// domain flag means everything; --skip-* flags then carve domains out
// of that set. --speed-test alone implies the network domain so the
// flag is usable without spelling out --network.
func selectionFromFlags(cmd *cli.Command) report.Selection {
	sel := report.Selection{
		Platform: cmd.Bool("platform"),
		CPU:      cmd.Bool("cpu"),
		Memory:   cmd.Bool("memory"),
		Disk:     cmd.Bool("disk"),
		Network:  cmd.Bool("network"),
	}
	if !sel.Any() {
		if cmd.Bool("speed-test") {
			sel.Network = true
		} else {
			sel = report.AllDomains()
		}
	}

	if cmd.Bool("skip-platform") {
		sel.Platform = false
	}
	if cmd.Bool("skip-cpu") {
		sel.CPU = false
	}
	if cmd.Bool("skip-memory") {
		sel.Memory = false
	}
	if cmd.Bool("skip-disk") {
		sel.Disk = false
	}
	if cmd.Bool("skip-network") {
		sel.Network = false
	}
	return sel
}

func closeQuietly(s serializer.Serializer) {
	if c, ok := s.(serializer.Closer); ok {
		_ = c.Close()
	}
}
