package publish

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// ClipboardError is returned when the system clipboard cannot be written
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("Failed to copy to clipboard: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// Ensure Clipboard implements Publisher interface
var _ Publisher = (*Clipboard)(nil)

// Clipboard copies the description to the system clipboard
type Clipboard struct {
	write func(string) error
}

// NewClipboard returns a Publisher backed by the operating system clipboard
func NewClipboard() *Clipboard {
	return &Clipboard{write: clipboard.WriteAll}
}

func (c *Clipboard) Publish(ctx context.Context, description string) error {
	if err := c.write(description); err != nil {
		return &ClipboardError{Err: err}
	}
	return nil
}
