package describe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kkeeling/pr-generator-cli/common"
	"github.com/kkeeling/pr-generator-cli/llm"
	"github.com/kkeeling/pr-generator-cli/logger"
	"github.com/kkeeling/pr-generator-cli/prompt"
)

var (
	// ErrEmptyResponse is returned when the model produced no text
	ErrEmptyResponse = errors.New("No response generated from model")
	// ErrMissingOutputMarker is returned in strict mode when the response lacks the opening marker
	ErrMissingOutputMarker = errors.New("Response does not contain the output marker")
)

// GenerationError wraps a transport or service failure of the model call
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Error generating content: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Markers delimit the description inside a model response. An empty End
// means the description runs to the end of the response.
type Markers struct {
	Start string
	End   string
}

func DefaultMarkers() Markers {
	return Markers{
		Start: common.DefaultOutputStart,
		End:   common.DefaultOutputEnd,
	}
}

// Extract returns the trimmed text between the first Start marker and the End
// marker that follows it. found is false when Start does not occur, in which
// case the whole trimmed text is returned.
func Extract(text string, m Markers) (description string, found bool) {
	if m.Start == "" {
		return strings.TrimSpace(text), false
	}

	_, after, ok := strings.Cut(text, m.Start)
	if !ok {
		return strings.TrimSpace(text), false
	}

	if m.End != "" {
		after, _, _ = strings.Cut(after, m.End)
	}

	return strings.TrimSpace(after), true
}

// Option configures a Generator
type Option func(*Generator)

// WithMarkers sets the output delimiters
func WithMarkers(m Markers) Option {
	return func(g *Generator) {
		g.markers = m
	}
}

// WithStrict makes a response without the opening marker an error
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// WithSystemPrompt sends instructions alongside the rendered template
func WithSystemPrompt(systemPrompt string) Option {
	return func(g *Generator) {
		g.systemPrompt = systemPrompt
	}
}

// Generator turns a template and a diff into a pull request description
type Generator struct {
	client       llm.LLM
	markers      Markers
	strict       bool
	systemPrompt string
}

func NewGenerator(client llm.LLM, opts ...Option) *Generator {
	g := &Generator{
		client:  client,
		markers: DefaultMarkers(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders template with diff, prompts the model and extracts the description
func (g *Generator) Generate(ctx context.Context, template, diff string) (string, error) {
	req := llm.Request{
		SystemPrompt: g.systemPrompt,
		UserPrompt:   prompt.Render(template, diff),
	}
	logger.Debugf("Prompt is %d bytes", len(req.UserPrompt))

	resp := g.client.Prompt(ctx, req)
	if resp.Error != nil {
		return "", &GenerationError{Err: resp.Error}
	}

	if strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyResponse
	}

	logger.Debug("LLM Response:")
	logger.Debug(resp.Content)

	description, found := Extract(resp.Content, g.markers)
	if !found {
		if g.strict {
			return "", fmt.Errorf("%w %q", ErrMissingOutputMarker, g.markers.Start)
		}
		logger.Warnf("Output marker %q not found, using the whole response", g.markers.Start)
	}

	return description, nil
}
