package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	ProviderAzure     = "azure"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	ErrMissingAPIKey       = errors.New("API key is not set")
	ErrMissingEndpoint     = errors.New("endpoint is not set")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrNoChoices           = errors.New("response contained no choices")
)

// OptionType defines the type of option
type OptionType string

// Available option types
const (
	ModelNameOption   OptionType = "model"
	MaxTokensOption   OptionType = "max_tokens"
	APITimeoutOption  OptionType = "api_timeout"
	APIKeyOption      OptionType = "api_key"
	BaseURLOption     OptionType = "base_url"
	APIVersionOption  OptionType = "api_version"
	DeploymentOption  OptionType = "deployment"
	TemperatureOption OptionType = "temperature"
)

// Option represents a generic configuration option for any LLM provider
type Option struct {
	Type  OptionType
	Value any
}

// WithModel creates an option to set the model name
func WithModel(model string) Option {
	return Option{
		Type:  ModelNameOption,
		Value: model,
	}
}

// WithMaxTokens creates an option to set the max tokens
func WithMaxTokens(maxTokens int) Option {
	return Option{
		Type:  MaxTokensOption,
		Value: maxTokens,
	}
}

// WithAPITimeout creates an option to set the API timeout in seconds
func WithAPITimeout(timeout int) Option {
	return Option{
		Type:  APITimeoutOption,
		Value: timeout,
	}
}

// WithAPIKey creates an option to set the API key
func WithAPIKey(apiKey string) Option {
	return Option{
		Type:  APIKeyOption,
		Value: apiKey,
	}
}

// WithBaseURL creates an option to set the endpoint of the provider
func WithBaseURL(baseURL string) Option {
	return Option{
		Type:  BaseURLOption,
		Value: baseURL,
	}
}

// WithAPIVersion creates an option to set the Azure OpenAI API version
func WithAPIVersion(version string) Option {
	return Option{
		Type:  APIVersionOption,
		Value: version,
	}
}

// WithDeployment creates an option to set the Azure OpenAI deployment name
func WithDeployment(deployment string) Option {
	return Option{
		Type:  DeploymentOption,
		Value: deployment,
	}
}

// WithTemperature creates an option to set the sampling temperature
func WithTemperature(temperature float32) Option {
	return Option{
		Type:  TemperatureOption,
		Value: temperature,
	}
}

// Request represents the data needed to generate a prompt for the LLM
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

// Response represents the response from the LLM
type Response struct {
	Content string
	Error   error
}

// LLM defines the interface for language model prompting
type LLM interface {
	// Prompt sends exactly one request to the language model and returns its response
	Prompt(ctx context.Context, req Request) Response
}

// settings is the resolved set of options shared by every provider
type settings struct {
	apiKey      string
	baseURL     string
	apiVersion  string
	deployment  string
	modelName   string
	maxTokens   int
	apiTimeout  int // in seconds
	temperature float32
}

func applyOptions(s *settings, opts []Option) {
	for _, opt := range opts {
		switch opt.Type {
		case ModelNameOption:
			if modelName, ok := opt.Value.(string); ok && modelName != "" {
				s.modelName = modelName
			}
		case MaxTokensOption:
			if maxTokens, ok := opt.Value.(int); ok && maxTokens > 0 {
				s.maxTokens = maxTokens
			}
		case APITimeoutOption:
			if timeout, ok := opt.Value.(int); ok && timeout > 0 {
				s.apiTimeout = timeout
			}
		case APIKeyOption:
			if apiKey, ok := opt.Value.(string); ok {
				s.apiKey = apiKey
			}
		case BaseURLOption:
			if baseURL, ok := opt.Value.(string); ok {
				s.baseURL = baseURL
			}
		case APIVersionOption:
			if version, ok := opt.Value.(string); ok && version != "" {
				s.apiVersion = version
			}
		case DeploymentOption:
			if deployment, ok := opt.Value.(string); ok && deployment != "" {
				s.deployment = deployment
			}
		case TemperatureOption:
			if temperature, ok := opt.Value.(float32); ok {
				s.temperature = temperature
			}
		}
	}
}

// NewLLM creates the client of the given provider. An empty modelName keeps the
// provider's default model. Credentials are checked here so a misconfigured run
// fails before any network call is made.
func NewLLM(providerName, modelName string, opts ...Option) (LLM, error) {
	options := []Option{
		WithMaxTokens(2500),
		WithAPITimeout(120),
		WithTemperature(0.1),
	}
	options = append(options, opts...)
	if modelName != "" {
		options = append(options, WithModel(modelName))
	}

	switch providerName {
	case ProviderAzure:
		return NewAzureOpenAI(options...)
	case ProviderOpenAI:
		return NewOpenAI(options...)
	case ProviderAnthropic:
		return NewAnthropic(options...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, providerName)
	}
}
