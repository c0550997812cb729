package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lendwire/internal/ipc"
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate request statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stats()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if resp.TotalRequests == 0 {
					fmt.Fprintln(out, "No disbursement requests")
					return nil
				}

				rows := make([][]string, 0, len(request.AllStatuses()))
				for _, status := range request.AllStatuses() {
					key := string(status)
					count := resp.StatusCounts[key]
					if count == 0 {
						continue
					}
					rows = append(rows, []string{
						key,
						fmt.Sprintf("%d", count),
						tier.FormatAmount(resp.TotalAmountsByStatus[key]),
					})
				}

				table := renderTable(
					[]string{"Status", "Count", "Total Amount"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight},
				)
				fmt.Fprintln(out, table)
				fmt.Fprintf(out, "Total: %d requests, %s\n", resp.TotalRequests, tier.FormatAmount(resp.TotalAmount))
				return nil
			})
		},
	}
}
