// Package logging provides structured logging utilities for atlas components.
//
// # Overview
//
// This package wraps the standard library slog package with atlas-specific
// defaults and conventions for consistent logging across all components. It
// supports environment-based log level configuration, module/version context
// injection, and automatic source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("atlas", "v1.0.0")
//
//	    // Use slog as normal
//	    slog.Info("collection complete", "domains", 5)
//	    slog.Debug("cache hit", "key", "cpu.identity")
//	    slog.Error("probe failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("collector", "v2.0.0", "debug")
//	logger.Info("probing", "domain", "disk")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug atlas collect
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "collection complete",
//	    "module": "atlas",
//	    "version": "v1.0.0",
//	    "domains": 5
//	}
//
// Debug logs include source location.
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging
//   - pkg/collector - orchestration logging
//   - pkg/probe - per-domain probe logging
//
// All components share consistent logging format and configuration.
package logging
