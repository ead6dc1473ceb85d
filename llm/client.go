// Package llm wraps the Anthropic API behind the narrow surfaces the agent
// needs: query classification, SQL generation, category-templated response
// generation, and follow-up suggestion refinement.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// DefaultModel is used when the caller does not pin one.
	DefaultModel = "claude-sonnet-4-5-20250929"

	defaultMaxOutputTokens = 1500
	classifyMaxTokens      = 10
	sqlMaxTokens           = 1000
	suggestionMaxTokens    = 150
)

// Messenger is the subset of the Anthropic message API the client depends on,
// split out so tests can substitute a canned implementation.
type Messenger interface {
	New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// realMessenger forwards to the SDK's message service.
type realMessenger struct {
	messages *anthropic.MessageService
}

func (r *realMessenger) New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return r.messages.New(ctx, params)
}

// ClientConfig configures the LLM client.
type ClientConfig struct {
	APIKey          string
	Model           string
	MaxOutputTokens int
}

// Client is the concrete LLM backend for the agent. It satisfies
// classify.Oracle through ClassifyQuery.
type Client struct {
	messenger Messenger
	model     anthropic.Model
	maxTokens int64
}

// NewClient builds a Client over the real Anthropic API. An empty API key
// falls through to the SDK's environment-based resolution.
func NewClient(cfg ClientConfig) *Client {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	client := anthropic.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := int64(defaultMaxOutputTokens)
	if cfg.MaxOutputTokens > 0 {
		maxTokens = int64(cfg.MaxOutputTokens)
	}

	return &Client{
		messenger: &realMessenger{messages: &client.Messages},
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
	}
}

// NewClientWithMessenger builds a Client over a custom Messenger, for tests.
func NewClientWithMessenger(m Messenger) *Client {
	return &Client{
		messenger: m,
		model:     anthropic.Model(DefaultModel),
		maxTokens: defaultMaxOutputTokens,
	}
}

// ClassifyQuery asks the model to place the query into one of the four
// analytics categories. The raw reply is returned for the caller to parse.
func (c *Client) ClassifyQuery(ctx context.Context, query string) (string, error) {
	return c.complete(ctx, classifierSystemPrompt,
		fmt.Sprintf(classificationPrompt, query), classifyMaxTokens)
}

// Exchange is one prior question/SQL pair carried into SQL generation so the
// model can resolve references like "the same breakdown for barley".
type Exchange struct {
	Question string
	SQL      string
}

// GenerateSQL produces a raw SQL query for the question. schemaInfo is the
// warehouse's schema description; history carries up to the last three
// exchanges as conversational context.
func (c *Client) GenerateSQL(ctx context.Context, schemaInfo, category, question string, history []Exchange) (string, error) {
	if len(history) > 3 {
		history = history[len(history)-3:]
	}

	messages := make([]anthropic.MessageParam, 0, 2*len(history)+1)
	for _, ex := range history {
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(ex.Question)))
		if ex.SQL != "" {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(ex.SQL)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(
		fmt.Sprintf(sqlGenerationPrompt, schemaInfo, category, question))))

	msg, err := c.messenger.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: sqlMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: sqlSystemPrompt},
		},
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("sql generation failed: %w", err)
	}
	return strings.TrimSpace(extractText(msg)), nil
}

// GenerateAnswer renders the final narrative response. The prompt carries the
// question, retrieved data, and any driver-tree context; the system prompt is
// selected by category template.
func (c *Client) GenerateAnswer(ctx context.Context, category, prompt string) (string, error) {
	return c.complete(ctx, systemPromptFor(category), prompt, c.maxTokens)
}

// SuggestFollowUps asks the model for follow-up questions given the current
// exchange. Replies are split into lines with numbering stripped; an error or
// empty reply returns nil so callers can fall back to static suggestions.
func (c *Client) SuggestFollowUps(ctx context.Context, category, question, dataContext string) ([]string, error) {
	prompt := fmt.Sprintf(`Original %s question: %q
Data context: %s

Generate 3 natural follow-up questions a CFO would ask next.`,
		strings.ToLower(category), question, dataContext)

	reply, err := c.complete(ctx, suggestionSystemPrompt, prompt, suggestionMaxTokens)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "0123456789.-) ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func (c *Client) complete(ctx context.Context, system, prompt string, maxTokens int64) (string, error) {
	msg, err := c.messenger.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return strings.TrimSpace(extractText(msg)), nil
}

func extractText(msg *anthropic.Message) string {
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text
}
