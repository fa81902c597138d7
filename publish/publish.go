package publish

import "context"

// Publisher delivers a generated pull request description somewhere
type Publisher interface {
	Publish(ctx context.Context, description string) error
}
