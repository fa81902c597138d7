package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	vcsurl "github.com/gitsight/go-vcsurl"
	"github.com/google/go-github/v48/github"
	"github.com/kkeeling/pr-generator-cli/common"
	"github.com/kkeeling/pr-generator-cli/logger"
	"golang.org/x/oauth2"
)

// CommentHeader marks the comment owned by this tool so reruns update it in place
const CommentHeader = "<!-- pr-generator: description -->"

// PublishError is returned when the description could not be published to the pull request
type PublishError struct {
	Target string
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("Failed to publish to %s: %v", e.Target, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// OptionType defines the type of option for the GitHub publisher
type OptionType string

// Available option types
const (
	APITokenOption OptionType = "api_token"
	TimeoutOption  OptionType = "timeout"
	BaseURLOption  OptionType = "base_url"
	ModeOption     OptionType = "mode"
)

// Option represents a generic configuration option for the GitHub publisher
type Option struct {
	Type  OptionType
	Value any
}

// WithAPIToken creates an option to set the API token
func WithAPIToken(token string) Option {
	return Option{
		Type:  APITokenOption,
		Value: token,
	}
}

// WithTimeout creates an option to set the API timeout in seconds
func WithTimeout(timeout int) Option {
	return Option{
		Type:  TimeoutOption,
		Value: timeout,
	}
}

// WithBaseURL creates an option to set the base URL for GitHub Enterprise
func WithBaseURL(baseURL string) Option {
	return Option{
		Type:  BaseURLOption,
		Value: baseURL,
	}
}

// WithMode selects between replacing the pull request body and maintaining a comment
func WithMode(mode string) Option {
	return Option{
		Type:  ModeOption,
		Value: mode,
	}
}

// ParseRepository accepts "owner/name" or any git remote URL and returns owner and name
func ParseRepository(repository string) (string, string, error) {
	if owner, name, ok := strings.Cut(repository, "/"); ok && !strings.Contains(name, "/") && !strings.Contains(owner, ":") && owner != "" && name != "" {
		return owner, name, nil
	}

	info, err := vcsurl.Parse(repository)
	if err != nil {
		return "", "", fmt.Errorf("invalid GitHub repository %q: %w", repository, err)
	}
	switch host := string(info.Host); host {
	case "bitbucket.org", "gitlab.com":
		return "", "", fmt.Errorf("%q is a %s repository, not a GitHub one", repository, host)
	}
	if info.Username == "" || info.Name == "" {
		return "", "", fmt.Errorf("invalid GitHub repository %q", repository)
	}
	return info.Username, info.Name, nil
}

// Ensure GitHub implements Publisher interface
var _ Publisher = (*GitHub)(nil)

// GitHub publishes the description to a pull request
type GitHub struct {
	client   *github.Client
	apiToken string
	timeout  int
	baseURL  string
	mode     string
	owner    string
	repo     string
	number   int
}

// NewGitHub creates a publisher for pull request number in owner/repo
func NewGitHub(owner, repo string, number int, opts ...Option) (*GitHub, error) {
	gh := &GitHub{
		timeout: 60, // Default timeout
		mode:    common.GitHubModeBody,
		owner:   owner,
		repo:    repo,
		number:  number,
	}

	// Apply options
	for _, opt := range opts {
		switch opt.Type {
		case APITokenOption:
			if token, ok := opt.Value.(string); ok {
				gh.apiToken = token
			}
		case TimeoutOption:
			if timeout, ok := opt.Value.(int); ok {
				gh.timeout = timeout
			}
		case BaseURLOption:
			if baseURL, ok := opt.Value.(string); ok {
				gh.baseURL = baseURL
			}
		case ModeOption:
			if mode, ok := opt.Value.(string); ok && mode != "" {
				gh.mode = mode
			}
		}
	}

	// Validate required options
	if gh.apiToken == "" {
		return nil, errors.New("GITHUB_TOKEN is required to publish to GitHub")
	}
	if owner == "" || repo == "" || number <= 0 {
		return nil, fmt.Errorf("invalid pull request target %s/%s#%d", owner, repo, number)
	}
	if gh.mode != common.GitHubModeBody && gh.mode != common.GitHubModeComment {
		return nil, fmt.Errorf("unsupported GitHub mode: %s", gh.mode)
	}

	// Create GitHub client
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: gh.apiToken})
	tc := oauth2.NewClient(context.Background(), ts)

	if gh.baseURL != "" {
		client, err := github.NewEnterpriseClient(gh.baseURL, gh.baseURL, tc)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub Enterprise client: %w", err)
		}
		gh.client = client
	} else {
		gh.client = github.NewClient(tc)
	}

	return gh, nil
}

// Target returns the pull request reference in owner/repo#number form
func (gh *GitHub) Target() string {
	return fmt.Sprintf("%s/%s#%d", gh.owner, gh.repo, gh.number)
}

func (gh *GitHub) Publish(ctx context.Context, description string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(gh.timeout)*time.Second)
	defer cancel()

	logger.Infof("Publishing description to %s (%s)", gh.Target(), gh.mode)

	var err error
	if gh.mode == common.GitHubModeComment {
		err = gh.upsertComment(ctx, description)
	} else {
		err = gh.updateBody(ctx, description)
	}
	if err != nil {
		return &PublishError{Target: gh.Target(), Err: err}
	}
	return nil
}

func (gh *GitHub) updateBody(ctx context.Context, description string) error {
	_, _, err := gh.client.PullRequests.Edit(ctx, gh.owner, gh.repo, gh.number, &github.PullRequest{
		Body: &description,
	})
	if err != nil {
		return fmt.Errorf("failed to update pull request %s: %w", gh.Target(), err)
	}
	return nil
}

// findComment returns the ID of the comment carrying CommentHeader, or 0 if there is none
func (gh *GitHub) findComment(ctx context.Context) (int64, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := gh.client.Issues.ListComments(ctx, gh.owner, gh.repo, gh.number, opts)
		if err != nil {
			return 0, fmt.Errorf("failed to list existing comments: %w", err)
		}

		for _, c := range comments {
			if strings.HasPrefix(c.GetBody(), CommentHeader) {
				return c.GetID(), nil
			}
		}

		if resp.NextPage == 0 {
			return 0, nil
		}
		opts.Page = resp.NextPage
	}
}

func (gh *GitHub) upsertComment(ctx context.Context, description string) error {
	commentID, err := gh.findComment(ctx)
	if err != nil {
		return err
	}

	commentBody := CommentHeader + "\n" + description
	comment := &github.IssueComment{
		Body: &commentBody,
	}

	if commentID > 0 {
		if _, _, err := gh.client.Issues.EditComment(ctx, gh.owner, gh.repo, commentID, comment); err != nil {
			return fmt.Errorf("failed to update existing description comment: %w", err)
		}
		return nil
	}

	if _, _, err := gh.client.Issues.CreateComment(ctx, gh.owner, gh.repo, gh.number, comment); err != nil {
		return fmt.Errorf("failed to post description comment: %w", err)
	}
	return nil
}
