package publish

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestConsolePublish(t *testing.T) {
	var buf bytes.Buffer

	if err := NewConsole(&buf).Publish(context.Background(), "Add feature"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := "\nGenerated PR Description:\n" +
		"----------------------------------------\n" +
		"Add feature\n" +
		"----------------------------------------\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestClipboardPublish(t *testing.T) {
	var copied string
	c := &Clipboard{write: func(s string) error {
		copied = s
		return nil
	}}

	if err := c.Publish(context.Background(), "Add feature"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if copied != "Add feature" {
		t.Errorf("Expected 'Add feature' on the clipboard, got %q", copied)
	}
}

func TestClipboardPublishError(t *testing.T) {
	cause := errors.New("no clipboard utilities available")
	c := &Clipboard{write: func(string) error { return cause }}

	err := c.Publish(context.Background(), "Add feature")

	var clipErr *ClipboardError
	if !errors.As(err, &clipErr) {
		t.Fatalf("Expected ClipboardError, got %v", err)
	}

	if !errors.Is(err, cause) {
		t.Error("Expected ClipboardError to wrap the cause")
	}

	if !strings.HasPrefix(err.Error(), "Failed to copy to clipboard") {
		t.Errorf("Unexpected error message %q", err.Error())
	}
}
