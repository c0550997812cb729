package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lendwire/internal/ipc"
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

func newRequestsCommand(ctx *commandContext) *cobra.Command {
	requestsCmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"req"},
		Short:   "Inspect and manage disbursement requests",
	}

	requestsCmd.AddCommand(newRequestsListCommand(ctx))
	requestsCmd.AddCommand(newRequestsShowCommand(ctx))
	requestsCmd.AddCommand(newRequestsAddCommand(ctx))
	requestsCmd.AddCommand(newRequestsSetStatusCommand(ctx, "approve", request.StatusApproved))
	requestsCmd.AddCommand(newRequestsSetStatusCommand(ctx, "reject", request.StatusRejected))
	requestsCmd.AddCommand(newRequestsStatusCommand(ctx))

	return requestsCmd
}

func newRequestsListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List disbursement requests, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RequestList(statusFilter)
				if err != nil {
					return err
				}
				if len(resp.Items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No disbursement requests")
					return nil
				}
				table := renderTable(
					[]string{"ID", "Borrower", "Amount", "Tier", "Status", "Submitted"},
					buildRequestRows(resp.Items),
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Filter by status (pending, approved, rejected)")
	return cmd
}

func newRequestsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one disbursement request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RequestDescribe(args[0])
				if err != nil {
					return err
				}
				printRequestDetail(cmd, resp.Item)
				return nil
			})
		},
	}
}

func newRequestsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <borrower-name> <loan-amount>",
		Short: "Submit a new disbursement request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
			if err != nil {
				return fmt.Errorf("invalid loan amount %q", args[1])
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RequestCreate(args[0], amount)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created request %s (%s, %s tier)\n",
					resp.Item.ID, tier.FormatAmount(resp.Item.LoanAmount), resp.Item.Tier)
				return nil
			})
		},
	}
}

func newRequestsSetStatusCommand(ctx *commandContext, verb string, target request.Status) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: fmt.Sprintf("Mark a disbursement request as %s", target),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RequestUpdateStatus(args[0], string(target))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if resp.StatusChanged {
					fmt.Fprintf(out, "Request %s is now %s\n", resp.Item.ID, resp.Item.Status)
				} else {
					fmt.Fprintf(out, "Request %s was already %s\n", resp.Item.ID, resp.Item.Status)
				}
				return nil
			})
		},
	}
}

func newRequestsStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Move a disbursement request to an explicit status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RequestUpdateStatus(args[0], args[1])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if resp.StatusChanged {
					fmt.Fprintf(out, "Request %s is now %s\n", resp.Item.ID, resp.Item.Status)
				} else {
					fmt.Fprintf(out, "Request %s was already %s\n", resp.Item.ID, resp.Item.Status)
				}
				return nil
			})
		},
	}
}

func buildRequestRows(items []ipc.Request) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.BorrowerName,
			tier.FormatAmount(item.LoanAmount),
			item.Tier,
			item.Status,
			item.SubmittedAt,
		})
	}
	return rows
}

func printRequestDetail(cmd *cobra.Command, item ipc.Request) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", item.ID)
	fmt.Fprintf(out, "Borrower:  %s\n", item.BorrowerName)
	fmt.Fprintf(out, "Amount:    %s\n", tier.FormatAmount(item.LoanAmount))
	fmt.Fprintf(out, "Tier:      %s\n", item.Tier)
	fmt.Fprintf(out, "Status:    %s\n", item.Status)
	fmt.Fprintf(out, "Submitted: %s\n", item.SubmittedAt)
}
