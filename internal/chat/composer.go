package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/nickaggarwal/git-timeline-analysis/internal/llm"
	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

const composerSystemPrompt = `You are an AI assistant specialized in analyzing software repositories and Git history. You have access to detailed information about commits, developers, files, and collaboration patterns from a graph database.

Your role is to:
1. Answer questions about the codebase using the provided context
2. Explain development patterns and trends
3. Identify key contributors and their expertise areas
4. Describe the evolution of features and bug fixes
5. Provide insights about collaboration and code quality

Always base your answers on the provided repository context. Be specific and reference actual commits, developers, and files when possible.`

// Bounds on the prompt assembled from prior conversation.
const (
	historyTurns      = 3
	historyTurnLength = 200
	answerTokenBudget = 500
)

// ComposeResponse builds the prompt from the assembled context, the
// truncated conversation history and the question, then asks the
// completion service. It always returns a usable answer: with no service
// configured, a failing call, or an empty completion, the raw context is
// returned with an explanatory note instead of an error.
func ComposeResponse(ctx context.Context, completer llm.Completer, question, contextText string, history []models.ChatMessage) string {
	if completer == nil {
		return fmt.Sprintf("Based on the repository data: %s\n\nRegarding your question '%s', I can see the relevant information above, but I don't have a completion service configured to provide a detailed analysis.", contextText, question)
	}

	var conversation strings.Builder
	if len(history) > 0 {
		conversation.WriteString("\nPREVIOUS CONVERSATION:\n")
		start := len(history) - historyTurns
		if start < 0 {
			start = 0
		}
		for _, msg := range history[start:] {
			role := msg.Role
			if role == "" {
				role = "user"
			}
			fmt.Fprintf(&conversation, "%s: %s\n", strings.ToUpper(role), truncate(msg.Content, historyTurnLength))
		}
		conversation.WriteString("\n")
	}

	userPrompt := fmt.Sprintf(`Context from repository analysis:
%s

%s

User Question: %s

Please provide a helpful and detailed answer based on the repository context provided above. Reference specific commits, developers, files, or patterns when relevant to the question.`,
		contextText, conversation.String(), question)

	response, err := completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: composerSystemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	}, answerTokenBudget)
	if err != nil {
		return fmt.Sprintf("I found relevant information in the repository, but encountered an error generating a detailed response. Here's what I found:\n\n%s", contextText)
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return fmt.Sprintf("Based on the repository analysis:\n\n%s\n\nI found the above information relevant to your question, but the model returned nothing useful.", contextText)
	}

	return response
}
