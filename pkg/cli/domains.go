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

func domainsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "domains",
		EnableShellCompletion: true,
		Usage:                 "List collectable information domains",
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			names := make([]string, 0, len(report.Domains))
			for _, d := range report.Domains {
				names = append(names, string(d))
			}

			out := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeQuietly(out)

			return out.Serialize(ctx, map[string][]string{"domains": names})
		},
	}
}
