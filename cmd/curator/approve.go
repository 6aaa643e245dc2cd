package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func approveCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "approve <content-id>...",
		Short: "Approve content items and archive them in the file manager",
		Long: `Approve the given content items as one batch.

Items are processed in order. Items that cannot be approved are counted as
failed and the batch continues. Progress is logged as the batch advances.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApprove(cmd.Context(), envFile, args)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runApprove(ctx context.Context, envFile string, ids []string) error {
	client, _, err := newClient(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	progress, err := client.Approvals.ApproveByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("approve: %w", err)
	}

	fmt.Printf("approved %d of %d (%d failed)\n", progress.Success(), progress.Total(), progress.Failed())
	if progress.Failed() > 0 {
		return fmt.Errorf("%d item(s) failed", progress.Failed())
	}
	return nil
}
