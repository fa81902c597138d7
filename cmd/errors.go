package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/kkeeling/pr-generator-cli/config"
	"github.com/kkeeling/pr-generator-cli/describe"
	"github.com/kkeeling/pr-generator-cli/git"
	"github.com/kkeeling/pr-generator-cli/prompt"
	"github.com/kkeeling/pr-generator-cli/publish"
)

// UsageError wraps invalid command line input and configuration
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// isHandled reports whether err is one of the failures the tool anticipates
func isHandled(err error) bool {
	var (
		usageErr      *UsageError
		fetchErr      *prompt.FetchError
		sameBranchErr *git.SameBranchError
		commandErr    *git.CommandError
		generationErr *describe.GenerationError
		clipboardErr  *publish.ClipboardError
		publishErr    *publish.PublishError
	)

	switch {
	case errors.As(err, &usageErr),
		errors.Is(err, config.ErrMissingAPIKey),
		errors.Is(err, prompt.ErrTemplateNotFound),
		errors.As(err, &fetchErr),
		errors.As(err, &sameBranchErr),
		errors.Is(err, git.ErrNoDifferences),
		errors.As(err, &commandErr),
		errors.Is(err, describe.ErrEmptyResponse),
		errors.Is(err, describe.ErrMissingOutputMarker),
		errors.As(err, &generationErr),
		errors.As(err, &clipboardErr),
		errors.As(err, &publishErr):
		return true
	}
	return false
}

func reportError(w io.Writer, err error) {
	if isHandled(err) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Unexpected error: %v\n", err)
}
