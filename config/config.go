package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kkeeling/pr-generator-cli/ci"
	"github.com/kkeeling/pr-generator-cli/common"
	"github.com/kkeeling/pr-generator-cli/git"
	"github.com/kkeeling/pr-generator-cli/llm"
	"github.com/kkeeling/pr-generator-cli/logger"
	"github.com/kkeeling/pr-generator-cli/publish"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey is returned when neither the flag nor any recognized environment variable holds a key
	ErrMissingAPIKey = errors.New("No API key provided")
	// ErrInvalidRepoPath is returned when the repository path is not an existing directory
	ErrInvalidRepoPath = errors.New("Invalid repository path")
	// ErrUnsupportedProvider is returned for an unknown generation backend
	ErrUnsupportedProvider = errors.New("Unsupported provider")
	// ErrMissingGitHubToken is returned when publishing is requested without a token
	ErrMissingGitHubToken = errors.New("No GitHub token provided")
	// ErrMissingPullRequest is returned when publishing is requested without a pull request number
	ErrMissingPullRequest = errors.New("No pull request number provided")
)

// GitHubTarget is the pull request the description is published to
type GitHubTarget struct {
	Owner       string
	Repo        string
	PullRequest int
	Mode        string
	Token       string
	APIURL      string
}

// Enabled reports whether publishing to GitHub was requested
func (g GitHubTarget) Enabled() bool {
	return g.PullRequest > 0
}

// Config is the resolved configuration of a single run
type Config struct {
	RepoPath      string
	RepoRoot      string
	Template      string
	CompareBranch string
	APIKey        string
	Provider      string
	Model         string
	MaxTokens     int
	SystemPrompt  string
	OutputStart   string
	OutputEnd     string
	StrictOutput  bool
	Timeout       time.Duration
	NoClipboard   bool
	GitHub        GitHubTarget
}

// AddFlags registers every configuration flag on flags
func AddFlags(flags *pflag.FlagSet) {
	flags.String(KeyRepoPath, "", "Path to the git repository (defaults to current directory)")
	flags.String(KeyTemplate, common.DefaultTemplate, "Path or URL to the XML prompt template file")
	flags.String(KeyCompareBranch, common.DefaultCompareBranch, "Branch to compare against")
	flags.String(KeyAPIKey, "", "API key (can be set via GEMINI_API_KEY or GOOGLE_API_KEY environment variable)")
	flags.String(KeyProvider, common.DefaultProvider, "LLM provider to use (gemini, openai, anthropic)")
	flags.String(KeyModel, "", "Model to use (defaults to the provider's default model)")
	flags.Int(KeyMaxTokens, 0, "Maximum number of tokens to generate (0 leaves the limit to the model)")
	flags.String(KeySystemPrompt, "", "System instructions sent alongside the prompt template")
	flags.String(KeyOutputStart, common.DefaultOutputStart, "Marker that opens the description in the model response")
	flags.String(KeyOutputEnd, common.DefaultOutputEnd, "Marker that closes the description in the model response")
	flags.Bool(KeyStrictOutput, false, "Fail when the response does not contain the output marker")
	flags.Duration(KeyTimeout, common.DefaultTimeout, "Deadline for the whole run")
	flags.Bool(KeyNoClipboard, false, "Do not copy the description to the clipboard")
	flags.Bool(KeyGitHubPublish, false, "Publish the description to the GitHub pull request")
	flags.Int(KeyGitHubPR, 0, "Pull request number to publish the description to (implies --github-publish)")
	flags.String(KeyGitHubRepo, "", "GitHub repository as owner/name or URL (defaults to the origin remote)")
	flags.String(KeyGitHubMode, common.GitHubModeBody, "How to publish to GitHub (body, comment)")
}

// Resolve builds the run configuration. Explicit flags win over environment
// variables, which win over the settings file, the CI context and the built-in defaults.
func Resolve(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	for _, key := range []string{
		KeyRepoPath, KeyTemplate, KeyCompareBranch, KeyAPIKey, KeyProvider, KeyModel,
		KeyMaxTokens, KeySystemPrompt, KeyOutputStart, KeyOutputEnd, KeyStrictOutput,
		KeyTimeout, KeyNoClipboard, KeyGitHubPublish, KeyGitHubPR, KeyGitHubRepo, KeyGitHubMode,
	} {
		if flag := flags.Lookup(key); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", key, err)
			}
		}
	}

	repoPath, err := resolveRepoPath(v.GetString(KeyRepoPath))
	if err != nil {
		return Config{}, err
	}

	repoRoot := repoPath
	if root, err := git.FindRoot(repoPath); err == nil {
		repoRoot = root
	} else {
		logger.Debugf("Not a git repository, using %s as root: %v", repoPath, err)
	}

	loadDotEnv(repoRoot)

	settings := common.WithDefaultSettings()
	if c, ok := ci.Detect(); ok {
		logger.Infof("Running on %s CI", c.Provider)
		c.Apply(&settings)
	}
	// Reported after the API key check; on error settings keeps the defaults
	settings, settingsErr := common.WithYamlFile(repoRoot, settings)

	v.SetDefault(KeyTemplate, settings.Template)
	v.SetDefault(KeyCompareBranch, settings.CompareBranch)
	v.SetDefault(KeyProvider, settings.Provider)
	v.SetDefault(KeyModel, settings.Model)
	v.SetDefault(KeyMaxTokens, settings.MaxTokens)
	v.SetDefault(KeySystemPrompt, settings.SystemPrompt)
	v.SetDefault(KeyOutputStart, settings.Output.Start)
	v.SetDefault(KeyOutputEnd, settings.Output.End)
	v.SetDefault(KeyStrictOutput, settings.Output.Strict)
	v.SetDefault(KeyTimeout, settings.Timeout)
	v.SetDefault(KeyNoClipboard, settings.NoClipboard)
	v.SetDefault(KeyGitHubPublish, settings.GitHub.Publish)
	v.SetDefault(KeyGitHubPR, settings.GitHub.PullRequest)
	v.SetDefault(KeyGitHubRepo, settings.GitHub.Repo)
	v.SetDefault(KeyGitHubMode, settings.GitHub.Mode)

	provider := strings.ToLower(strings.TrimSpace(v.GetString(KeyProvider)))
	envVars := llm.APIKeyEnvVars(provider)

	if err := v.BindEnv(append([]string{KeyAPIKey}, envVars...)...); err != nil {
		return Config{}, fmt.Errorf("failed to bind environment for %s: %w", KeyAPIKey, err)
	}
	if err := v.BindEnv(KeyGitHubToken, EnvGitHubToken); err != nil {
		return Config{}, fmt.Errorf("failed to bind environment for %s: %w", KeyGitHubToken, err)
	}
	if err := v.BindEnv(KeyGitHubAPIURL, EnvGitHubAPIURL); err != nil {
		return Config{}, fmt.Errorf("failed to bind environment for %s: %w", KeyGitHubAPIURL, err)
	}

	apiKey := strings.TrimSpace(v.GetString(KeyAPIKey))
	if apiKey == "" {
		return Config{}, missingAPIKeyError(envVars)
	}

	if settingsErr != nil {
		return Config{}, settingsErr
	}
	switch provider {
	case llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}

	cfg := Config{
		RepoPath:      repoPath,
		RepoRoot:      repoRoot,
		Template:      v.GetString(KeyTemplate),
		CompareBranch: v.GetString(KeyCompareBranch),
		APIKey:        apiKey,
		Provider:      provider,
		Model:         v.GetString(KeyModel),
		MaxTokens:     v.GetInt(KeyMaxTokens),
		SystemPrompt:  v.GetString(KeySystemPrompt),
		OutputStart:   v.GetString(KeyOutputStart),
		OutputEnd:     v.GetString(KeyOutputEnd),
		StrictOutput:  v.GetBool(KeyStrictOutput),
		Timeout:       v.GetDuration(KeyTimeout),
		NoClipboard:   v.GetBool(KeyNoClipboard),
	}

	if cfg.Model == "" {
		cfg.Model = llm.DefaultModel(provider)
	}
	if cfg.CompareBranch == "" {
		cfg.CompareBranch = common.DefaultCompareBranch
	}
	if cfg.OutputStart == "" {
		return Config{}, errors.New("output start marker cannot be empty")
	}
	if cfg.Timeout < 0 {
		return Config{}, errors.New("timeout cannot be negative")
	}
	if cfg.MaxTokens < 0 {
		return Config{}, errors.New("max tokens cannot be negative")
	}

	if v.GetBool(KeyGitHubPublish) || flags.Changed(KeyGitHubPR) {
		target, err := resolveGitHub(v, repoRoot)
		if err != nil {
			return Config{}, err
		}
		cfg.GitHub = target
	} else if pr := v.GetInt(KeyGitHubPR); pr > 0 {
		logger.Debugf("Pull request #%d known but publishing is off", pr)
	}

	logger.Debugf("Resolved config: provider=%s model=%s compare=%s template=%s timeout=%s clipboard=%t",
		cfg.Provider, cfg.Model, cfg.CompareBranch, cfg.Template, cfg.Timeout, !cfg.NoClipboard)

	return cfg, nil
}

func resolveRepoPath(path string) (string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		path = wd
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: directory '%s' does not exist", ErrInvalidRepoPath, path)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: '%s' is not a directory", ErrInvalidRepoPath, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// loadDotEnv reads the .env file at root without overriding variables already set
func loadDotEnv(root string) {
	path := filepath.Join(root, DotEnvFile)
	if _, err := os.Stat(path); err != nil {
		return
	}

	if err := godotenv.Load(path); err != nil {
		logger.Warnf("Failed to load %s: %v", path, err)
		return
	}
	logger.Debugf("Loaded environment from %s", path)
}

func missingAPIKeyError(envVars []string) error {
	if len(envVars) == 1 {
		return fmt.Errorf("%w. Set the %s environment variable, or provide --%s option", ErrMissingAPIKey, envVars[0], KeyAPIKey)
	}
	return fmt.Errorf("%w. Set either %s environment variable, or provide --%s option",
		ErrMissingAPIKey, strings.Join(envVars, " or "), KeyAPIKey)
}

func resolveGitHub(v *viper.Viper, repoRoot string) (GitHubTarget, error) {
	pr := v.GetInt(KeyGitHubPR)
	if pr <= 0 {
		return GitHubTarget{}, fmt.Errorf("%w. Set --%s to publish to GitHub", ErrMissingPullRequest, KeyGitHubPR)
	}

	target := GitHubTarget{
		PullRequest: pr,
		Mode:        v.GetString(KeyGitHubMode),
		Token:       v.GetString(KeyGitHubToken),
		APIURL:      v.GetString(KeyGitHubAPIURL),
	}

	switch target.Mode {
	case "":
		target.Mode = common.GitHubModeBody
	case common.GitHubModeBody, common.GitHubModeComment:
	default:
		return GitHubTarget{}, fmt.Errorf("unsupported GitHub mode: %s", target.Mode)
	}

	if target.Token == "" {
		return GitHubTarget{}, fmt.Errorf("%w. Set the %s environment variable to publish to GitHub", ErrMissingGitHubToken, EnvGitHubToken)
	}

	repository := v.GetString(KeyGitHubRepo)
	if repository == "" {
		remote, err := git.RemoteURL(repoRoot, "origin")
		if err != nil {
			return GitHubTarget{}, fmt.Errorf("failed to determine GitHub repository: %w", err)
		}
		repository = remote
	}

	owner, repo, err := publish.ParseRepository(repository)
	if err != nil {
		return GitHubTarget{}, err
	}
	target.Owner = owner
	target.Repo = repo

	return target, nil
}
