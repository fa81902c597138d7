package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kkeeling/pr-generator-cli/common"
	"github.com/kkeeling/pr-generator-cli/logger"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	DefaultGeminiModel    = "gemini-2.0-flash-thinking-exp"
	DefaultOpenAIModel    = "gpt-4.1"
	DefaultAnthropicModel = "claude-3-7-sonnet-latest"
)

// OptionType defines the type of option
type OptionType string

// Available option types
const (
	ModelNameOption  OptionType = "model"
	MaxTokensOption  OptionType = "max_tokens"
	APITimeoutOption OptionType = "api_timeout"
	BaseURLOption    OptionType = "base_url"
	HTTPClientOption OptionType = "http_client"
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

// WithBaseURL creates an option to point a provider at a different endpoint
func WithBaseURL(baseURL string) Option {
	return Option{
		Type:  BaseURLOption,
		Value: baseURL,
	}
}

// WithHTTPClient creates an option to set the HTTP client used for API calls
func WithHTTPClient(client *http.Client) Option {
	return Option{
		Type:  HTTPClientOption,
		Value: client,
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
	// Prompt sends a request to the language model and returns its response
	Prompt(ctx context.Context, req Request) Response
}

// settings collects the provider independent options
type settings struct {
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
	baseURL    string
	httpClient *http.Client
}

func applyOptions(s *settings, opts []Option) {
	for _, opt := range opts {
		switch opt.Type {
		case ModelNameOption:
			if modelName, ok := opt.Value.(string); ok && modelName != "" {
				s.modelName = modelName
			}
		case MaxTokensOption:
			// 0 keeps the provider default
			if maxTokens, ok := opt.Value.(int); ok && maxTokens > 0 {
				s.maxTokens = maxTokens
			}
		case APITimeoutOption:
			if timeout, ok := opt.Value.(int); ok {
				s.apiTimeout = timeout
			}
		case BaseURLOption:
			if baseURL, ok := opt.Value.(string); ok {
				s.baseURL = baseURL
			}
		case HTTPClientOption:
			if client, ok := opt.Value.(*http.Client); ok {
				s.httpClient = client
			}
		}
	}
}

// withTimeout bounds ctx by the configured API timeout; 0 disables the bound
func withTimeout(ctx context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}

// DefaultModel returns the model used when none is configured for provider
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	default:
		return DefaultGeminiModel
	}
}

// APIKeyEnvVars lists the environment variables holding the API key for provider, in priority order
func APIKeyEnvVars(provider string) []string {
	switch provider {
	case ProviderOpenAI:
		return []string{"OPENAI_API_KEY"}
	case ProviderAnthropic:
		return []string{"ANTHROPIC_API_KEY"}
	default:
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	}
}

// NewLLM creates the client for providerName authenticated with apiKey
func NewLLM(providerName, modelName, apiKey string, opts ...Option) (LLM, error) {
	var llmClient LLM
	var err error

	if modelName == "" {
		modelName = DefaultModel(providerName)
	}

	options := []Option{
		WithModel(modelName),
		WithAPITimeout(60),
		WithHTTPClient(common.NewHTTPClient()),
	}
	options = append(options, opts...)

	switch providerName {
	case ProviderGemini:
		llmClient, err = NewGemini(apiKey, options...)
	case ProviderOpenAI:
		llmClient, err = NewOpenAI(apiKey, options...)
	case ProviderAnthropic:
		llmClient, err = NewAnthropic(apiKey, options...)
	default:
		err = fmt.Errorf("unsupported provider: %s", providerName)
	}

	if err == nil {
		logger.Infof("Using LLM provider %s with model %s", providerName, modelName)
	}

	return llmClient, err
}
