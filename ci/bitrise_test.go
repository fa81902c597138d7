package ci

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kkeeling/pr-generator-cli/common"
)

func TestDetectOutsideBitrise(t *testing.T) {
	t.Setenv("BITRISE_IO", "")

	if _, ok := Detect(); ok {
		t.Error("Expected no CI context outside of Bitrise")
	}
}

func TestDetectBitrise(t *testing.T) {
	t.Setenv("BITRISE_IO", "true")
	t.Setenv("BITRISEIO_GIT_BRANCH_DEST", "develop")
	t.Setenv("BITRISE_PULL_REQUEST", "42")
	t.Setenv("GIT_REPOSITORY_URL", "git@github.com:acme/widgets.git")

	c, ok := Detect()
	if !ok {
		t.Fatal("Expected a CI context on Bitrise")
	}

	want := Context{
		Provider:      ProviderBitrise,
		DestBranch:    "develop",
		PullRequest:   42,
		RepositoryURL: "git@github.com:acme/widgets.git",
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectBitriseInvalidPullRequest(t *testing.T) {
	t.Setenv("BITRISE_IO", "true")
	t.Setenv("BITRISEIO_GIT_BRANCH_DEST", "")
	t.Setenv("BITRISE_PULL_REQUEST", "not-a-number")
	t.Setenv("GIT_REPOSITORY_URL", "")

	c, ok := Detect()
	if !ok {
		t.Fatal("Expected a CI context on Bitrise")
	}

	if c.PullRequest != 0 {
		t.Errorf("Expected pull request 0, got %d", c.PullRequest)
	}
}

func TestApply(t *testing.T) {
	settings := common.WithDefaultSettings()

	Context{
		Provider:      ProviderBitrise,
		DestBranch:    "develop",
		PullRequest:   42,
		RepositoryURL: "https://github.com/acme/widgets.git",
	}.Apply(&settings)

	want := common.WithDefaultSettings()
	want.NoClipboard = true
	want.CompareBranch = "develop"
	want.GitHub.PullRequest = 42
	want.GitHub.Repo = "https://github.com/acme/widgets.git"

	if diff := cmp.Diff(want, settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyKeepsDefaultsForEmptyValues(t *testing.T) {
	settings := common.WithDefaultSettings()
	Context{Provider: ProviderBitrise}.Apply(&settings)

	if settings.CompareBranch != common.DefaultCompareBranch {
		t.Errorf("Expected compare branch %s, got %s", common.DefaultCompareBranch, settings.CompareBranch)
	}
	if !settings.NoClipboard {
		t.Error("Expected clipboard to be disabled on CI")
	}
}
