package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kkeeling/pr-generator-cli/logger"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTemplate is the prompt template used when none is configured
	DefaultTemplate = "https://raw.githubusercontent.com/kkeeling/pr-generator-cli/refs/heads/main/write-pr-volato-prompt.xml"
	// DefaultCompareBranch is the branch the current checkout is diffed against
	DefaultCompareBranch = "main"
	// DefaultProvider is the generation backend
	DefaultProvider = "gemini"
	// DefaultOutputStart opens the description section of a model response
	DefaultOutputStart = "### OUTPUT ###"
	// DefaultOutputEnd closes the description section of a model response
	DefaultOutputEnd = "### END OUTPUT ###"
	// DefaultTimeout bounds a whole run
	DefaultTimeout = 2 * time.Minute

	GitHubModeBody    = "body"
	GitHubModeComment = "comment"
)

// SettingsFileNames are looked up, in order, at the repository root
var SettingsFileNames = []string{".pr-generator.yml", ".pr-generator.yaml"}

type Output struct {
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Strict bool   `yaml:"strict"`
}

type GitHub struct {
	// Publish turns on publishing; a pull request number alone never does
	Publish     bool   `yaml:"publish"`
	Repo        string `yaml:"repo"`
	PullRequest int    `yaml:"pull_request"`
	Mode        string `yaml:"mode"`
}

// Settings are the per-repository defaults. Command line flags and environment
// variables take precedence over every field.
type Settings struct {
	Template      string        `yaml:"template"`
	CompareBranch string        `yaml:"compare_branch"`
	Provider      string        `yaml:"provider"`
	Model         string        `yaml:"model"`
	MaxTokens     int           `yaml:"max_tokens"`
	SystemPrompt  string        `yaml:"system_prompt"`
	Timeout       time.Duration `yaml:"timeout"`
	NoClipboard   bool          `yaml:"no_clipboard"`
	Output        Output        `yaml:"output"`
	GitHub        GitHub        `yaml:"github"`
}

func WithDefaultSettings() Settings {
	return Settings{
		Template:      DefaultTemplate,
		CompareBranch: DefaultCompareBranch,
		Provider:      DefaultProvider,
		Timeout:       DefaultTimeout,
		Output: Output{
			Start: DefaultOutputStart,
			End:   DefaultOutputEnd,
		},
		GitHub: GitHub{
			Mode: GitHubModeBody,
		},
	}
}

// FindSettingsFile returns the first settings file present in dir, or "" if none exists
func FindSettingsFile(dir string) string {
	for _, name := range SettingsFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// WithYamlFile overlays the settings file found in dir on top of base.
// A missing file leaves base untouched; an unreadable or invalid file is an error.
func WithYamlFile(dir string, base Settings) (Settings, error) {
	filePath := FindSettingsFile(dir)
	if filePath == "" {
		logger.Debugf("No settings file found in %s, using defaults", dir)
		return base, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return base, fmt.Errorf("failed to read settings file %s: %w", filePath, err)
	}

	settings := base
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return base, fmt.Errorf("failed to parse settings file %s: %w", filePath, err)
	}

	if err := settings.Validate(); err != nil {
		return base, fmt.Errorf("invalid settings file %s: %w", filePath, err)
	}

	logger.Infof("Using settings from YAML file: %s", filePath)
	return settings, nil
}

// Validate reports settings that can never produce a working run
func (s Settings) Validate() error {
	if s.Output.Start == "" {
		return errors.New("output.start cannot be empty")
	}
	if s.MaxTokens < 0 {
		return errors.New("max_tokens cannot be negative")
	}
	if s.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	switch s.GitHub.Mode {
	case "", GitHubModeBody, GitHubModeComment:
	default:
		return fmt.Errorf("unsupported github.mode: %s", s.GitHub.Mode)
	}
	return nil
}
