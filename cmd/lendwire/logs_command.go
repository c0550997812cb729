package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"lendwire/internal/logtail"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show daemon log output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Server.LogDir, "lendwire.log")

			chunk, err := logtail.Read(cmd.Context(), path, logtail.Options{Offset: -1, Limit: lines})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range chunk.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			offset := chunk.Offset
			for {
				chunk, err = logtail.Read(cmd.Context(), path, logtail.Options{Offset: offset, Wait: 30 * time.Second})
				if err != nil {
					return err
				}
				for _, line := range chunk.Lines {
					fmt.Fprintln(out, line)
				}
				offset = chunk.Offset
			}
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming new log output")
	return cmd
}
