package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/helixml/curator/infrastructure/api/v1/dto"
	"github.com/spf13/cobra"
)

func topicsCmd() *cobra.Command {
	var (
		envFile string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List approved topics",
		Long: `List the approved topics content can be generated from. Topics come from
the generation API when GENERATION_API_BASE_URL is set, or the local database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopics(cmd.Context(), envFile, asJSON)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print topics as JSON")

	return cmd
}

func runTopics(ctx context.Context, envFile string, asJSON bool) error {
	client, _, err := newClient(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	topics, err := client.ApprovedTopics.Fetch(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewTopicListResponse(topics).Data)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tBRAND\tCREATED")
	for _, t := range topics {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID(), t.Title(), t.BrandID(), t.CreatedAt().Format("2006-01-02"))
	}
	return w.Flush()
}
