// Package prompt holds the user-editable prompt template library and the
// placeholder substitution used to turn a transcript into an AI prompt.
//
// Templates recognise three literal tokens: {{Title}}, {{URL}} and
// {{Transcript}}. Substitution is exact string replacement — unmatched
// tokens are left in place and missing values substitute a fixed
// fallback, so a malformed template never fails an activation.
package prompt

import "strings"

// DefaultID is the identifier of the built-in template. The library
// guarantees a template with this ID always exists.
const DefaultID = "default"

// Fallback replaces a placeholder whose value is unavailable.
const Fallback = "(not available)"

// Template is one named prompt in the library.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// DefaultContent is the body of the built-in template.
const DefaultContent = `Summarize the key points of this video lecture.

Title: {{Title}}
URL: {{URL}}

Transcript:
{{Transcript}}`

// Default returns the built-in template.
func Default() Template {
	return Template{
		ID:          DefaultID,
		Name:        "Default",
		Description: "Built-in summary prompt",
		Content:     DefaultContent,
	}
}

// Vars carries the values substituted into a template.
type Vars struct {
	Title      string
	URL        string
	Transcript string
}

// Fill substitutes the recognised placeholder tokens in content.
// Empty values substitute Fallback; tokens the template does not use
// are simply never replaced and unknown tokens pass through untouched.
func Fill(content string, vars Vars) string {
	r := strings.NewReplacer(
		"{{Title}}", orFallback(vars.Title),
		"{{URL}}", orFallback(vars.URL),
		"{{Transcript}}", orFallback(vars.Transcript),
	)
	return r.Replace(content)
}

func orFallback(s string) string {
	if s == "" {
		return Fallback
	}
	return s
}

// Find returns the template with the given ID, falling back to the
// default entry when the ID is unknown or empty.
func Find(list []Template, id string) Template {
	for _, t := range list {
		if t.ID == id {
			return t
		}
	}
	for _, t := range list {
		if t.ID == DefaultID {
			return t
		}
	}
	return Default()
}
