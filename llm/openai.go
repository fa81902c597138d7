package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkeeling/pr-generator-cli/logger"
	"github.com/sashabaranov/go-openai"
)

// OpenAIModel implements the LLM interface using OpenAI's API
type OpenAIModel struct {
	client     *openai.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewOpenAI creates a new OpenAI client
func NewOpenAI(apiKey string, opts ...Option) (*OpenAIModel, error) {
	if apiKey == "" {
		errMsg := "OpenAI API key cannot be empty"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	s := settings{
		modelName:  DefaultOpenAIModel,
		maxTokens:  4000,
		apiTimeout: 30,
	}
	applyOptions(&s, opts)

	config := openai.DefaultConfig(apiKey)
	if s.httpClient != nil {
		config.HTTPClient = s.httpClient
	}
	if s.baseURL != "" {
		config.BaseURL = s.baseURL
	}

	model := &OpenAIModel{
		client:     openai.NewClientWithConfig(config),
		modelName:  s.modelName,
		maxTokens:  s.maxTokens,
		apiTimeout: s.apiTimeout,
	}

	logger.Debugf("OpenAI client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to OpenAI and returns the response
func (o *OpenAIModel) Prompt(ctx context.Context, req Request) Response {
	ctx, cancel := withTimeout(ctx, o.apiTimeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{}

	if req.SystemPrompt != "" {
		logger.Debug("Adding system prompt to OpenAI request")
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       o.modelName,
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: 0.2, // Lower temperature for more deterministic results
	}

	logger.Infof("Sending request to OpenAI with model %s, max tokens %d", o.modelName, o.maxTokens)

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		errMsg := fmt.Sprintf("failed to create chat completion: %v", err)
		logger.Error(errMsg)
		return Response{
			Error: errors.New(errMsg),
		}
	}

	if len(resp.Choices) == 0 {
		errMsg := "OpenAI response contained no choices"
		logger.Error(errMsg)
		return Response{
			Error: errors.New(errMsg),
		}
	}

	return Response{
		Content: resp.Choices[0].Message.Content,
	}
}
