package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/helixml/curator/domain/generation"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "generate <topic-id>",
		Short: "Draft content for every platform from an approved topic",
		Long: `Draft and save one content item per platform from an approved topic.
Rate-limited requests are retried with exponential backoff.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), envFile, args[0])
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runGenerate(ctx context.Context, envFile, topicID string) error {
	client, _, err := newClient(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	result, err := client.ApprovedTopics.GenerateContentFromTopic(ctx, topicID)
	if err != nil {
		var userErr *generation.UserError
		if errors.As(err, &userErr) {
			return errors.New(userErr.Message())
		}
		return err
	}

	for _, c := range result.Contents() {
		fmt.Printf("[%s] %s\n%s\n\n", c.Platform(), c.ID(), c.Text())
	}
	return nil
}
