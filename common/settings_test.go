package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWithDefaultSettings(t *testing.T) {
	settings := WithDefaultSettings()

	if settings.Template != DefaultTemplate {
		t.Errorf("Expected default template %s, got %s", DefaultTemplate, settings.Template)
	}

	if settings.CompareBranch != "main" {
		t.Errorf("Expected default compare branch to be main, got %s", settings.CompareBranch)
	}

	if settings.Provider != "gemini" {
		t.Errorf("Expected default provider to be gemini, got %s", settings.Provider)
	}

	if settings.Model != "" {
		t.Errorf("Expected empty Model by default, got %s", settings.Model)
	}

	if settings.Output.Start != "### OUTPUT ###" || settings.Output.End != "### END OUTPUT ###" {
		t.Errorf("Unexpected default output markers: %+v", settings.Output)
	}

	if settings.Output.Strict {
		t.Error("Expected strict output to be disabled by default")
	}

	if settings.NoClipboard {
		t.Error("Expected clipboard delivery to be enabled by default")
	}

	if err := settings.Validate(); err != nil {
		t.Errorf("Expected default settings to be valid, got %v", err)
	}
}

func TestWithYamlFile_ValidFile(t *testing.T) {
	configContent := `template: ./prompts/pr.xml
compare_branch: develop
provider: openai
model: gpt-4o
max_tokens: 4000
system_prompt: Keep it short.
timeout: 45s
no_clipboard: true
output:
  start: "OUTPUT:"
  end: ""
  strict: true
github:
  publish: true
  repo: acme/widgets
  pull_request: 12
  mode: comment
`
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, ".pr-generator.yml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	settings, err := WithYamlFile(tempDir, WithDefaultSettings())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := Settings{
		Template:      "./prompts/pr.xml",
		CompareBranch: "develop",
		Provider:      "openai",
		Model:         "gpt-4o",
		MaxTokens:     4000,
		SystemPrompt:  "Keep it short.",
		Timeout:       45 * time.Second,
		NoClipboard:   true,
		Output: Output{
			Start:  "OUTPUT:",
			End:    "",
			Strict: true,
		},
		GitHub: GitHub{
			Publish:     true,
			Repo:        "acme/widgets",
			PullRequest: 12,
			Mode:        GitHubModeComment,
		},
	}

	if diff := cmp.Diff(want, settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestWithYamlFile_PartialFileKeepsBase(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, ".pr-generator.yaml"), []byte("compare_branch: trunk\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	settings, err := WithYamlFile(tempDir, WithDefaultSettings())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := WithDefaultSettings()
	want.CompareBranch = "trunk"

	if diff := cmp.Diff(want, settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestWithYamlFile_NoFile(t *testing.T) {
	base := WithDefaultSettings()
	base.CompareBranch = "release"

	settings, err := WithYamlFile(t.TempDir(), base)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if diff := cmp.Diff(base, settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestWithYamlFile_PrefersYmlOverYaml(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, ".pr-generator.yml"), []byte("compare_branch: from-yml\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, ".pr-generator.yaml"), []byte("compare_branch: from-yaml\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	settings, err := WithYamlFile(tempDir, WithDefaultSettings())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.CompareBranch != "from-yml" {
		t.Errorf("Expected compare branch from-yml, got %s", settings.CompareBranch)
	}
}

func TestWithYamlFile_InvalidYaml(t *testing.T) {
	invalidContent := `compare_branch: develop
output:
  start: "### OUTPUT ###"
  this-is-invalid-yaml
`
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, ".pr-generator.yml"), []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create invalid config file: %v", err)
	}

	settings, err := WithYamlFile(tempDir, WithDefaultSettings())
	if err == nil {
		t.Fatal("Expected an error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse settings file") {
		t.Errorf("Unexpected error message: %v", err)
	}

	if diff := cmp.Diff(WithDefaultSettings(), settings); diff != "" {
		t.Errorf("Expected defaults on error (-want +got):\n%s", diff)
	}
}

func TestWithYamlFile_EmptyFile(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, ".pr-generator.yml"), []byte(""), 0644); err != nil {
		t.Fatalf("Failed to create empty config file: %v", err)
	}

	settings, err := WithYamlFile(tempDir, WithDefaultSettings())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if diff := cmp.Diff(WithDefaultSettings(), settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{
			name:    "empty output start",
			mutate:  func(s *Settings) { s.Output.Start = "" },
			wantErr: "output.start cannot be empty",
		},
		{
			name:    "negative timeout",
			mutate:  func(s *Settings) { s.Timeout = -time.Second },
			wantErr: "timeout cannot be negative",
		},
		{
			name:    "negative max tokens",
			mutate:  func(s *Settings) { s.MaxTokens = -1 },
			wantErr: "max_tokens cannot be negative",
		},
		{
			name:    "unknown github mode",
			mutate:  func(s *Settings) { s.GitHub.Mode = "review" },
			wantErr: "unsupported github.mode: review",
		},
		{
			name:   "empty output end is allowed",
			mutate: func(s *Settings) { s.Output.End = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := WithDefaultSettings()
			tt.mutate(&settings)

			err := settings.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Expected error %q, got %v", tt.wantErr, err)
			}
		})
	}
}
