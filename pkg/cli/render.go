/*
Copyright © 2025 Atlas Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/frostleo/atlas/pkg/report"
	"github.com/frostleo/atlas/pkg/serializer"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:                  "render",
		EnableShellCompletion: true,
		Usage:                 "Re-emit a saved snapshot in another format",
		ArgsUsage:             "<snapshot-file>",
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("snapshot file argument is required")
			}

			// Input format follows the file extension.
			snap, err := serializer.FromFile[report.Snapshot](path)
			if err != nil {
				return err
			}
			if err := snap.Validate(); err != nil {
				return fmt.Errorf("invalid snapshot in %q: %w", path, err)
			}

			out := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeQuietly(out)

			return out.Serialize(ctx, snap)
		},
	}
}
