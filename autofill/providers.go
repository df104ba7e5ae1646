package autofill

import (
	"net/url"
	"strings"

	"github.com/coursehand/coursehand/settings"
)

// editorKind drives how text is injected: plain textareas take a value
// assignment plus a synthetic input event; rich contenteditable
// editors need their node tree replaced so the host framework's
// reactivity notices the change.
type editorKind string

const (
	editorTextarea editorKind = "textarea"
	editorRich     editorKind = "rich"
)

// inputLocator is one ranked strategy for finding a provider's input
// widget.
type inputLocator struct {
	selector string
	kind     editorKind
}

// Provider describes one supported AI chat front-end.
type Provider struct {
	ID    string
	hosts []string
	// inputs are tried in rank order: provider-specific rich-editor
	// patterns first, plain textareas next, the ARIA textbox role as
	// the generic fallback.
	inputs []inputLocator
	// sendSelectors locate the send control; explicit ids and test-ids
	// rank above the shared aria-label and icon heuristics.
	sendSelectors []string
}

var providers = []Provider{
	{
		ID:    settings.ModelChatGPT,
		hosts: []string{"chatgpt.com", "chat.openai.com"},
		inputs: []inputLocator{
			{"#prompt-textarea", editorRich},
			{"textarea[data-testid='prompt-textarea']", editorTextarea},
			{"div.ProseMirror[contenteditable='true']", editorRich},
			{"[role='textbox']", editorRich},
		},
		sendSelectors: []string{
			"button[data-testid='send-button']",
			"#composer-submit-button",
		},
	},
	{
		ID:    settings.ModelGemini,
		hosts: []string{"gemini.google.com"},
		inputs: []inputLocator{
			{"div.ql-editor[contenteditable='true']", editorRich},
			{"rich-textarea div[contenteditable='true']", editorRich},
			{"[role='textbox']", editorRich},
		},
		sendSelectors: []string{
			"button.send-button",
			"button[data-test-id='send-button']",
		},
	},
	{
		ID:    settings.ModelClaude,
		hosts: []string{"claude.ai"},
		inputs: []inputLocator{
			{"div.ProseMirror[contenteditable='true']", editorRich},
			{"[data-testid='chat-input']", editorRich},
			{"fieldset textarea", editorTextarea},
			{"[role='textbox']", editorRich},
		},
		sendSelectors: []string{
			"button[data-testid='send-button']",
			"button[aria-label='Send message']",
		},
	},
	{
		ID:    settings.ModelGrok,
		hosts: []string{"grok.com"},
		inputs: []inputLocator{
			{"textarea[data-testid='chat-input']", editorTextarea},
			{"form textarea", editorTextarea},
			{"[role='textbox']", editorRich},
		},
		sendSelectors: []string{
			"button[type='submit']",
			"button[data-testid='send-button']",
		},
	},
}

// sendAriaLabels feed the shared aria-label fallback, compared
// lowercase as substrings.
var sendAriaLabels = []string{"send", "submit"}

// Detect matches the page origin against the known providers.
func Detect(pageURL string) (*Provider, bool) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())

	for i := range providers {
		for _, h := range providers[i].hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return &providers[i], true
			}
		}
	}
	return nil, false
}

// IsProviderURL reports whether any provider serves the URL.
func IsProviderURL(pageURL string) bool {
	_, ok := Detect(pageURL)
	return ok
}
