package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkeeling/pr-generator-cli/logger"
	"google.golang.org/genai"
)

// GeminiModel implements the LLM interface using the Gemini API
type GeminiModel struct {
	client     *genai.Client
	modelName  string
	maxTokens  int
	apiTimeout int // in seconds
}

// NewGemini creates a new Gemini client
func NewGemini(apiKey string, opts ...Option) (*GeminiModel, error) {
	if apiKey == "" {
		errMsg := "Gemini API key cannot be empty"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	s := settings{
		modelName:  DefaultGeminiModel,
		apiTimeout: 60,
	}
	applyOptions(&s, opts)

	config := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: s.httpClient,
	}
	if s.baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: s.baseURL}
	}

	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := &GeminiModel{
		client:     client,
		modelName:  s.modelName,
		maxTokens:  s.maxTokens,
		apiTimeout: s.apiTimeout,
	}

	logger.Debugf("Gemini client initialized with model: %s, max tokens: %d, timeout: %d seconds",
		model.modelName, model.maxTokens, model.apiTimeout)

	return model, nil
}

// Prompt sends a request to Gemini and returns the text of the first candidate
func (g *GeminiModel) Prompt(ctx context.Context, req Request) Response {
	ctx, cancel := withTimeout(ctx, g.apiTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{
				Text: req.SystemPrompt,
			}},
		}
	}
	// 0 leaves the limit to the model
	if g.maxTokens > 0 {
		config.MaxOutputTokens = int32(g.maxTokens)
	}

	logger.Infof("Sending request to Gemini with model %s", g.modelName)

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(req.UserPrompt), config)
	if err != nil {
		errMsg := fmt.Sprintf("failed to generate content: %v", err)
		logger.Error(errMsg)
		return Response{
			Error: errors.New(errMsg),
		}
	}

	if resp.UsageMetadata != nil {
		logger.Debugf("Gemini usage: prompt tokens %d, candidate tokens %d",
			resp.UsageMetadata.PromptTokenCount, resp.UsageMetadata.CandidatesTokenCount)
	}

	return Response{
		Content: resp.Text(),
	}
}
