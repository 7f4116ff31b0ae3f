package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <codebase-id>",
	Short: "Inspect the history graph of an analyzed repository",
	Long: `Prints a bounded snapshot of the repository graph as JSON, or runs
one of the canned projections (--search, --expertise, --collaboration).`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().String("search", "", "search commit messages and summaries for a term")
	graphCmd.Flags().Bool("expertise", false, "list developers by contribution score")
	graphCmd.Flags().Bool("collaboration", false, "list files touched by multiple developers")
	graphCmd.Flags().Int("limit", 10, "maximum rows for --search")
	graphCmd.MarkFlagsMutuallyExclusive("search", "expertise", "collaboration")
}

func runGraph(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	codebaseID := args[0]

	client, err := newGraphClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to Neo4j: %w", err)
	}
	defer client.Close(ctx)

	search, _ := cmd.Flags().GetString("search")
	expertise, _ := cmd.Flags().GetBool("expertise")
	collaboration, _ := cmd.Flags().GetBool("collaboration")
	limit, _ := cmd.Flags().GetInt("limit")

	switch {
	case search != "":
		rows, err := client.SearchCommits(ctx, codebaseID, search, limit)
		if err != nil {
			return err
		}
		return printJSON(cmd, rows)
	case expertise:
		rows, err := client.DeveloperExpertise(ctx, codebaseID)
		if err != nil {
			return err
		}
		return printJSON(cmd, rows)
	case collaboration:
		rows, err := client.CollaborationFiles(ctx, codebaseID)
		if err != nil {
			return err
		}
		return printJSON(cmd, rows)
	default:
		snapshot, err := client.Snapshot(ctx, codebaseID)
		if err != nil {
			return err
		}
		return printJSON(cmd, snapshot)
	}
}

func printJSON(cmd *cobra.Command, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
