package prompt

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		diff     string
		want     string
	}{
		{
			name:     "single placeholder",
			template: "<t>[[user-input]]</t>",
			diff:     "patch-content",
			want:     "<t>patch-content</t>",
		},
		{
			name:     "every occurrence is replaced",
			template: "[[user-input]]\n---\n[[user-input]]",
			diff:     "D",
			want:     "D\n---\nD",
		},
		{
			name:     "no placeholder",
			template: "static prompt",
			diff:     "ignored",
			want:     "static prompt",
		},
		{
			name:     "diff is inserted verbatim",
			template: "<diff>[[user-input]]</diff>",
			diff:     "diff --git a/x b/x\n+  $1 & <tag>\n",
			want:     "<diff>diff --git a/x b/x\n+  $1 & <tag>\n</diff>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.template, tt.diff)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if strings.Contains(got, Placeholder) {
				t.Errorf("Residual placeholder in %q", got)
			}
		})
	}
}
