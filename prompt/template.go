package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/kkeeling/pr-generator-cli/logger"
)

// ErrTemplateNotFound is returned when a local template path does not exist
var ErrTemplateNotFound = errors.New("Prompt template file not found")

// FetchError is returned when a remote template cannot be retrieved
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch template from URL: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsURL reports whether location should be fetched over HTTP instead of read from disk
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Load returns the template text stored at location, a filesystem path or an HTTP(S) URL
func Load(ctx context.Context, location string, client *http.Client) (string, error) {
	if IsURL(location) {
		return fetch(ctx, location, client)
	}
	return read(location)
}

func read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt template %s: %w", path, err)
	}

	logger.Debugf("Loaded prompt template from %s (%d bytes)", path, len(data))
	return string(data), nil
}

func fetch(ctx context.Context, url string, client *http.Client) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, Err: fmt.Errorf("%s for url: %s", resp.Status, url)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	logger.Debugf("Fetched prompt template from %s (%d bytes)", url, len(body))
	return string(body), nil
}
