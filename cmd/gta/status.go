package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity to the graph store and completion service",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	client, err := newGraphClient(ctx)
	if err != nil {
		fmt.Fprintf(out, "Neo4j:      unreachable (%v)\n", err)
	} else {
		defer client.Close(ctx)
		if err := client.HealthCheck(ctx); err != nil {
			fmt.Fprintf(out, "Neo4j:      unhealthy (%v)\n", err)
		} else {
			fmt.Fprintf(out, "Neo4j:      ok (%s)\n", cfg.Neo4j.URI)
		}
	}

	if cfg.HasCompletionService() {
		fmt.Fprintf(out, "Completion: configured (provider=%s, model=%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
	} else {
		fmt.Fprintln(out, "Completion: not configured (answers degrade to raw graph context)")
	}

	return nil
}
