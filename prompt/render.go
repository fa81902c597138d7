package prompt

import "strings"

// Placeholder is replaced by the diff when a template is rendered
const Placeholder = "[[user-input]]"

// Render substitutes every occurrence of Placeholder in template with diff, verbatim
func Render(template, diff string) string {
	return strings.ReplaceAll(template, Placeholder, diff)
}
