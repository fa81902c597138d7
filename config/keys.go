package config

// Keys are the viper keys; each one matches the name of its command line flag
const (
	KeyRepoPath      = "repo-path"
	KeyTemplate      = "template"
	KeyCompareBranch = "compare-branch"
	KeyAPIKey        = "api-key"
	KeyProvider      = "provider"
	KeyModel         = "model"
	KeyMaxTokens     = "max-tokens"
	KeySystemPrompt  = "system-prompt"
	KeyOutputStart   = "output-start"
	KeyOutputEnd     = "output-end"
	KeyStrictOutput  = "strict-output"
	KeyTimeout       = "timeout"
	KeyNoClipboard   = "no-clipboard"
	KeyGitHubPublish = "github-publish"
	KeyGitHubPR      = "github-pr"
	KeyGitHubRepo    = "github-repo"
	KeyGitHubMode    = "github-mode"
	KeyGitHubToken   = "github-token"
	KeyGitHubAPIURL  = "github-api-url"
)

const (
	EnvGitHubToken  = "GITHUB_TOKEN"
	EnvGitHubAPIURL = "GITHUB_API_URL"
)

// DotEnvFile is loaded from the repository root when present
const DotEnvFile = ".env"
