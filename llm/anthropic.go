package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicModel implements the LLM interface using Anthropic's API
type AnthropicModel struct {
	client anthropic.Client
	settings
}

// NewAnthropic creates a new Anthropic client
func NewAnthropic(opts ...Option) (*AnthropicModel, error) {
	s := defaultSettings(string(anthropic.ModelClaude3_7SonnetLatest))
	applyOptions(&s, opts)

	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: set LLM_API_KEY", ErrMissingAPIKey)
	}

	// A failed request fails the run, the SDK must not retry on its own
	clientOpts := []option.RequestOption{
		option.WithAPIKey(s.apiKey),
		option.WithMaxRetries(0),
	}
	if s.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(s.baseURL))
	}

	return &AnthropicModel{
		client:   anthropic.NewClient(clientOpts...),
		settings: s,
	}, nil
}

// Prompt sends a request to Anthropic and returns the response
func (a *AnthropicModel) Prompt(ctx context.Context, req Request) Response {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.apiTimeout)*time.Second)
	defer cancel()

	messageParams := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.modelName),
		MaxTokens:   int64(a.maxTokens),
		Temperature: anthropic.Float(float64(a.temperature)),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}

	message, err := a.client.Messages.New(ctx, messageParams)
	if err != nil {
		return Response{
			Error: fmt.Errorf("failed to create message: %w", err),
		}
	}

	// Extract text content from the response
	var content string
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			content += b.Text
		}
	}

	if content == "" {
		return Response{
			Error: ErrNoChoices,
		}
	}

	return Response{
		Content: content,
	}
}
