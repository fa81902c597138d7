package publish

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Separator frames the description on the console
var Separator = strings.Repeat("-", 40)

// Ensure Console implements Publisher interface
var _ Publisher = (*Console)(nil)

// Console prints the description between separator lines
type Console struct {
	Out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

func (c *Console) Publish(ctx context.Context, description string) error {
	_, err := fmt.Fprintf(c.Out, "\nGenerated PR Description:\n%s\n%s\n%s\n", Separator, description, Separator)
	return err
}
