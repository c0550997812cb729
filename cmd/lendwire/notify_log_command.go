package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lendwire/internal/ipc"
)

func newNotifyLogCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "notify-log",
		Short: "Show recent notification delivery attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.NotifyLog(limit)
				if err != nil {
					return err
				}
				if len(resp.Entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No delivery attempts recorded")
					return nil
				}

				rows := make([][]string, 0, len(resp.Entries))
				for _, entry := range resp.Entries {
					rows = append(rows, []string{
						strconv.FormatInt(entry.ID, 10),
						entry.RequestID,
						entry.Event,
						entry.Tier,
						entry.Outcome,
						entry.Detail,
						entry.AttemptedAt,
					})
				}

				table := renderTable(
					[]string{"ID", "Request", "Event", "Tier", "Outcome", "Detail", "At"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of entries to show")
	return cmd
}
