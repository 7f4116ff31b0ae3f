package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all nodes and relationships from the graph",
	Long: `Removes every node and relationship from the configured Neo4j
database. This is destructive and asks for confirmation unless --yes is
given.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		fmt.Fprintf(cmd.OutOrStdout(), "This deletes ALL data in %s. Continue? [y/N] ", cfg.Neo4j.URI)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	client, err := newGraphClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to Neo4j: %w", err)
	}
	defer client.Close(ctx)

	if err := client.ClearDatabase(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Graph cleared.")
	return nil
}
