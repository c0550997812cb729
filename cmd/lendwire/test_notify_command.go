package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lendwire/internal/ipc"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to each configured channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestNotify()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, result := range resp.Results {
					switch {
					case !result.Configured:
						fmt.Fprintf(out, "%s: no webhook configured\n", result.Tier)
					case result.Passed:
						fmt.Fprintf(out, "%s: test notification sent\n", result.Tier)
					default:
						fmt.Fprintf(out, "%s: failed (%s)\n", result.Tier, result.Error)
					}
				}
				return nil
			})
		},
	}
}
