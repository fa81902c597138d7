package ci

import (
	"os"
	"strconv"

	"github.com/kkeeling/pr-generator-cli/common"
	"github.com/kkeeling/pr-generator-cli/logger"
)

const ProviderBitrise = "bitrise"

// Context describes the pull request build the tool runs in
type Context struct {
	Provider      string
	DestBranch    string
	PullRequest   int
	RepositoryURL string
}

// Detect returns the pull request context when running on Bitrise
func Detect() (Context, bool) {
	if os.Getenv("BITRISE_IO") != "true" {
		return Context{}, false
	}

	c := Context{
		Provider:      ProviderBitrise,
		DestBranch:    os.Getenv("BITRISEIO_GIT_BRANCH_DEST"),
		RepositoryURL: os.Getenv("GIT_REPOSITORY_URL"),
	}

	if pr := os.Getenv("BITRISE_PULL_REQUEST"); pr != "" {
		number, err := strconv.Atoi(pr)
		if err != nil {
			logger.Warnf("Ignoring invalid BITRISE_PULL_REQUEST value %q", pr)
		} else {
			c.PullRequest = number
		}
	}

	return c, true
}

// Apply makes the CI context the default for settings. There is no clipboard on a CI runner.
// The pull request and repository only take effect when publishing is turned on.
func (c Context) Apply(settings *common.Settings) {
	settings.NoClipboard = true

	if c.DestBranch != "" {
		settings.CompareBranch = c.DestBranch
	}
	if c.PullRequest > 0 {
		settings.GitHub.PullRequest = c.PullRequest
	}
	if c.RepositoryURL != "" {
		settings.GitHub.Repo = c.RepositoryURL
	}
}
