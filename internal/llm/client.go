package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/nickaggarwal/git-timeline-analysis/internal/config"
)

// Message is one role-tagged message in a completion request.
type Message struct {
	Role    string
	Content string
}

// Completer is the external text-completion capability. Implementations
// must be treated as fallible and slow; callers bound each call with a
// context deadline.
type Completer interface {
	Complete(ctx context.Context, messages []Message, maxTokens int) (string, error)
	Model() string
}

// NewCompleter builds the configured completion service. The provider is
// chosen once at construction: "openai" talks to the public API,
// "gateway" routes through an Azure-style deployment endpoint. A nil
// Completer with nil error means no service is configured and callers
// run in degraded mode.
func NewCompleter(cfg *config.Config, logger *logrus.Logger) (Completer, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		if cfg.LLM.APIKey == "" {
			logger.Warn("openai provider selected but no API key configured, completion service disabled")
			return nil, nil
		}
		logger.WithField("model", cfg.LLM.Model).Info("OpenAI completion service configured")
		return &openAICompleter{
			client: openai.NewClient(cfg.LLM.APIKey),
			model:  cfg.LLM.Model,
			logger: logger,
		}, nil

	case config.ProviderGateway:
		if cfg.LLM.GatewayEndpoint == "" || cfg.LLM.GatewayKey == "" {
			logger.Warn("gateway provider selected but endpoint or key missing, completion service disabled")
			return nil, nil
		}
		azureCfg := openai.DefaultAzureConfig(cfg.LLM.GatewayKey, cfg.LLM.GatewayEndpoint)
		deployment := cfg.LLM.Deployment
		azureCfg.AzureModelMapperFunc = func(string) string { return deployment }
		logger.WithField("deployment", deployment).Info("Gateway completion service configured")
		return &openAICompleter{
			client: openai.NewClientWithConfig(azureCfg),
			model:  deployment,
			logger: logger,
		}, nil

	case "":
		logger.Info("No completion service configured, running with rule-based analysis only")
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

type openAICompleter struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

func (c *openAICompleter) Model() string {
	return c.model
}

func (c *openAICompleter) Complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  chatMessages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	c.logger.WithFields(logrus.Fields{
		"model":           c.model,
		"response_length": len(content),
		"tokens_used":     resp.Usage.TotalTokens,
	}).Debug("Completion finished")

	return content, nil
}

// Role names accepted by Complete.
const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)
