// Package llm implements query parsing and answer generation on top of an
// OpenAI-compatible chat completion endpoint.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"AgriQuery/internal/config"
	"AgriQuery/internal/domain"
	"AgriQuery/internal/ports"
)

// Client talks to a chat model for both pipeline stages: turning a question
// into a structured query, and turning retrieved data into prose.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *slog.Logger
}

var (
	_ ports.QueryParser    = (*Client)(nil)
	_ ports.AnswerRenderer = (*Client)(nil)
)

// NewClient builds a client from configuration.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		apiCfg.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.1
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}, nil
}

// ParseQuery extracts a structured query from a natural-language question.
// On any model or decode failure it returns a safe general-intent query so
// the pipeline can still answer something.
func (c *Client) ParseQuery(ctx context.Context, text string) (domain.QueryDescription, error) {
	if strings.TrimSpace(text) == "" {
		return domain.QueryDescription{}, fmt.Errorf("llm: empty query text")
	}

	raw, err := c.complete(ctx, parsePrompt(text))
	if err != nil {
		c.logger.Warn("query parse completion failed", "error", err)
		return safeDefaultQuery(), err
	}

	var q domain.QueryDescription
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &q); err != nil {
		c.logger.Warn("query parse returned invalid JSON",
			"error", err, "response", snippet(raw))
		return safeDefaultQuery(), fmt.Errorf("llm: decode parsed query: %w", err)
	}
	return q.Normalize(), nil
}

// GenerateAnswer renders the retrieved data into a cited prose answer.
func (c *Client) GenerateAnswer(ctx context.Context, userQuery, dataContext string, results map[string]any) (string, error) {
	resultsJSON, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		resultsJSON = []byte(fmt.Sprintf("%v", results))
	}

	answer, err := c.complete(ctx, answerPrompt(userQuery, dataContext, string(resultsJSON)))
	if err != nil {
		return "", fmt.Errorf("llm: generate answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// stripCodeFence removes a markdown code block wrapper if the model added
// one despite the JSON-only instruction.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func safeDefaultQuery() domain.QueryDescription {
	return domain.QueryDescription{
		Intent:  domain.IntentGeneral,
		Years:   []int{2001, 2005},
		Metrics: []string{"production"},
	}.Normalize()
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 256 {
		return s[:256] + "..."
	}
	return s
}
