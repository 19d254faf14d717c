package llm

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"
)

const defaultAzureAPIVersion = "2024-08-01-preview"

// OpenAIModel implements the LLM interface using the OpenAI chat completion API,
// either hosted by OpenAI or by an Azure OpenAI deployment
type OpenAIModel struct {
	client *openai.Client
	settings
}

func defaultSettings(modelName string) settings {
	return settings{
		modelName:   modelName,
		maxTokens:   2500,
		apiTimeout:  120,
		temperature: 0.1,
		apiVersion:  defaultAzureAPIVersion,
	}
}

// NewOpenAI creates a new OpenAI client
func NewOpenAI(opts ...Option) (*OpenAIModel, error) {
	s := defaultSettings("gpt-4o")
	applyOptions(&s, opts)

	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: set LLM_API_KEY", ErrMissingAPIKey)
	}

	config := openai.DefaultConfig(s.apiKey)
	if s.baseURL != "" {
		config.BaseURL = s.baseURL
	}

	return &OpenAIModel{
		client:   openai.NewClientWithConfig(config),
		settings: s,
	}, nil
}

// NewAzureOpenAI creates a client for an Azure OpenAI deployment. The deployment
// defaults to the model name.
func NewAzureOpenAI(opts ...Option) (*OpenAIModel, error) {
	s := defaultSettings("gpt4o")
	applyOptions(&s, opts)

	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: set AZURE_OPENAI_API_KEY", ErrMissingAPIKey)
	}
	if s.baseURL == "" {
		return nil, fmt.Errorf("%w: set AZURE_OPENAI_ENDPOINT", ErrMissingEndpoint)
	}
	if s.deployment == "" {
		s.deployment = s.modelName
	}

	config := openai.DefaultAzureConfig(s.apiKey, s.baseURL)
	config.APIVersion = s.apiVersion
	deployment := s.deployment
	config.AzureModelMapperFunc = func(string) string {
		return deployment
	}

	return &OpenAIModel{
		client:   openai.NewClientWithConfig(config),
		settings: s,
	}, nil
}

// requestTemperature keeps a zero temperature in the request body. The field is
// omitted from the JSON when zero and the API would use its default of 1.
func (o *OpenAIModel) requestTemperature() float32 {
	if o.temperature == 0 {
		return math.SmallestNonzeroFloat32
	}
	return o.temperature
}

// Prompt sends a request to OpenAI and returns the response
func (o *OpenAIModel) Prompt(ctx context.Context, req Request) Response {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(o.apiTimeout)*time.Second)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: o.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.UserPrompt,
			},
		},
		MaxTokens:   o.maxTokens,
		Temperature: o.requestTemperature(),
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return Response{
			Error: fmt.Errorf("failed to create chat completion: %w", err),
		}
	}

	if len(resp.Choices) == 0 {
		return Response{
			Error: ErrNoChoices,
		}
	}

	return Response{
		Content: resp.Choices[0].Message.Content,
	}
}
