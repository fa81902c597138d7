package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kkeeling/pr-generator-cli/common"
	"github.com/kkeeling/pr-generator-cli/config"
	"github.com/kkeeling/pr-generator-cli/describe"
	"github.com/kkeeling/pr-generator-cli/git"
	"github.com/kkeeling/pr-generator-cli/llm"
	"github.com/kkeeling/pr-generator-cli/prompt"
	"github.com/kkeeling/pr-generator-cli/publish"
	"github.com/spf13/cobra"
)

// pullRequestPublisher is a Publisher bound to a single pull request
type pullRequestPublisher interface {
	publish.Publisher
	Target() string
}

// deps are the collaborators of a run, replaceable in tests
type deps struct {
	newRunner    func(repoPath string) git.Runner
	newLLM       func(cfg config.Config) (llm.LLM, error)
	httpClient   func() *http.Client
	newClipboard func() publish.Publisher
	newGitHub    func(target config.GitHubTarget, timeout int) (pullRequestPublisher, error)
}

func defaultDeps() deps {
	return deps{
		newRunner: func(repoPath string) git.Runner {
			return git.NewDefaultRunner(repoPath)
		},
		newLLM: func(cfg config.Config) (llm.LLM, error) {
			return llm.NewLLM(cfg.Provider, cfg.Model, cfg.APIKey,
				llm.WithAPITimeout(int(cfg.Timeout.Seconds())),
				llm.WithMaxTokens(cfg.MaxTokens),
				llm.WithHTTPClient(common.NewHTTPClient()),
			)
		},
		httpClient: common.NewHTTPClient,
		newClipboard: func() publish.Publisher {
			return publish.NewClipboard()
		},
		newGitHub: func(target config.GitHubTarget, timeout int) (pullRequestPublisher, error) {
			opts := []publish.Option{
				publish.WithAPIToken(target.Token),
				publish.WithMode(target.Mode),
			}
			if timeout > 0 {
				opts = append(opts, publish.WithTimeout(timeout))
			}
			if target.APIURL != "" {
				opts = append(opts, publish.WithBaseURL(target.APIURL))
			}
			return publish.NewGitHub(target.Owner, target.Repo, target.PullRequest, opts...)
		},
	}
}

func runGenerate(cmd *cobra.Command, d deps) error {
	cfg, err := config.Resolve(cmd.Flags())
	if err != nil {
		return &UsageError{Err: err}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	out := cmd.OutOrStdout()

	template, err := prompt.Load(ctx, cfg.Template, d.httpClient())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nAnalyzing changes between current branch and '%s'...\n", cfg.CompareBranch)

	gitClient := git.NewClient(d.newRunner(cfg.RepoPath))
	diff, err := gitClient.BranchDiff(ctx, cfg.CompareBranch)
	if err != nil {
		return err
	}

	llmClient, err := d.newLLM(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client for provider %s: %w", cfg.Provider, err)
	}

	generator := describe.NewGenerator(llmClient,
		describe.WithMarkers(describe.Markers{Start: cfg.OutputStart, End: cfg.OutputEnd}),
		describe.WithStrict(cfg.StrictOutput),
		describe.WithSystemPrompt(cfg.SystemPrompt),
	)
	description, err := generator.Generate(ctx, template, diff)
	if err != nil {
		return err
	}

	if !cfg.NoClipboard {
		if err := d.newClipboard().Publish(ctx, description); err != nil {
			return err
		}
	}

	if err := publish.NewConsole(out).Publish(ctx, description); err != nil {
		return err
	}

	var published string
	if cfg.GitHub.Enabled() {
		gh, err := d.newGitHub(cfg.GitHub, int(cfg.Timeout.Seconds()))
		if err != nil {
			return &UsageError{Err: err}
		}
		if err := gh.Publish(ctx, description); err != nil {
			return err
		}
		published = gh.Target()
	}

	if !cfg.NoClipboard {
		fmt.Fprintln(out, "\nThe PR description has been copied to your clipboard!")
	}
	if published != "" {
		fmt.Fprintf(out, "The PR description has been published to %s\n", published)
	}

	return nil
}
