package main

import (
	"log/slog"

	"github.com/helixml/curator/internal/mcp"
	"github.com/spf13/cobra"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants list approved topics, approve content and draft new
content. Configuration is loaded from environment variables and .env file.
Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	client, slogger, err := newClient(envFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close curator client", slog.Any("error", err))
		}
	}()

	slogger.Info("starting MCP server",
		slog.String("version", version),
		slog.String("data_dir", client.DataDir()),
	)

	server := mcp.NewServer(client.ApprovedTopics, client.Approvals, client, version, slogger)
	return server.ServeStdio()
}
