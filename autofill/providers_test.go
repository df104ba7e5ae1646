package autofill

import (
	"testing"

	"github.com/coursehand/coursehand/settings"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://chatgpt.com/", settings.ModelChatGPT, true},
		{"https://chat.openai.com/chat", settings.ModelChatGPT, true},
		{"https://gemini.google.com/app", settings.ModelGemini, true},
		{"https://gemini.google.com/u/2/app", settings.ModelGemini, true},
		{"https://claude.ai/new", settings.ModelClaude, true},
		{"https://grok.com/", settings.ModelGrok, true},
		{"https://www.youtube.com/watch?v=x", "", false},
		{"https://chatgpt.com.evil.example/", "", false},
		{"://bad", "", false},
	}

	for _, tt := range tests {
		p, ok := Detect(tt.url)
		if ok != tt.ok {
			t.Errorf("Detect(%q) ok = %v, want %v", tt.url, ok, tt.ok)
			continue
		}
		if ok && p.ID != tt.want {
			t.Errorf("Detect(%q) = %s, want %s", tt.url, p.ID, tt.want)
		}
	}
}

func TestIsProviderURL(t *testing.T) {
	if !IsProviderURL("https://claude.ai/chat/abc") {
		t.Error("claude chat page not recognised")
	}
	if IsProviderURL("https://www.udemy.com/course/x") {
		t.Error("platform page recognised as provider")
	}
}

// Every provider must end its locator ranking with the generic ARIA
// textbox fallback and carry at least one explicit send selector.
func TestProviderLocatorShape(t *testing.T) {
	for _, p := range providers {
		if len(p.inputs) == 0 {
			t.Errorf("%s: no input locators", p.ID)
			continue
		}
		last := p.inputs[len(p.inputs)-1]
		if last.selector != "[role='textbox']" {
			t.Errorf("%s: last locator %q is not the generic fallback", p.ID, last.selector)
		}
		if len(p.sendSelectors) == 0 {
			t.Errorf("%s: no send selectors", p.ID)
		}
	}
}
