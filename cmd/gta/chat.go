package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nickaggarwal/git-timeline-analysis/internal/chat"
	"github.com/nickaggarwal/git-timeline-analysis/internal/llm"
	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

var chatCmd = &cobra.Command{
	Use:   "chat <codebase-id>",
	Short: "Ask questions about an analyzed repository",
	Long: `Answers natural-language questions about a repository that has been
ingested with 'gta analyze'. With --question a single answer is printed;
otherwise an interactive session starts.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringP("question", "q", "", "ask a single question and exit")
	chatCmd.Flags().Bool("show-context", false, "print the graph context used for the answer")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	codebaseID := args[0]

	question, _ := cmd.Flags().GetString("question")
	showContext, _ := cmd.Flags().GetBool("show-context")

	client, err := newGraphClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to Neo4j: %w", err)
	}
	defer client.Close(ctx)

	service := chat.NewService(client, newCompleter(), logger)

	if question != "" {
		result, err := service.Ask(ctx, codebaseID, question, nil)
		if err != nil {
			return err
		}
		printAnswer(cmd, result, showContext)
		return nil
	}

	return chatLoop(ctx, cmd, service, codebaseID, showContext)
}

func chatLoop(ctx context.Context, cmd *cobra.Command, service *chat.Service, codebaseID string, showContext bool) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Chatting about %s. Type 'exit' to quit.\n", codebaseID)

	var history []models.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		result, err := service.Ask(ctx, codebaseID, question, history)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		printAnswer(cmd, result, showContext)

		history = append(history,
			models.ChatMessage{Role: llm.RoleUser, Content: question},
			models.ChatMessage{Role: llm.RoleAssistant, Content: result.Response},
		)
	}
}

func printAnswer(cmd *cobra.Command, result models.ChatResult, showContext bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n", result.Response)
	if showContext {
		fmt.Fprintf(out, "\n--- queries: %d, context rows: %d ---\n%s\n",
			len(result.QueriesUsed), len(result.RelevantNodes), result.Context)
	}
}
