// Package handoff decides whether a generated prompt leaves the
// extension for an AI provider page and performs the hand-off: persist
// the pending record, then open the provider URL. It is stateless
// beyond the settings snapshot passed in.
package handoff

import (
	"fmt"

	"github.com/coursehand/coursehand/settings"
	"github.com/coursehand/coursehand/store"
)

// Default chat URLs per model id. The Gemini URL may carry a
// user-configured account-index segment; Claude always lands on the
// new-conversation path.
const (
	chatGPTURL = "https://chatgpt.com/"
	claudeURL  = "https://claude.ai/new"
	geminiURL  = "https://gemini.google.com/app"
	grokURL    = "https://grok.com/"
)

// TabOpener opens a URL in a new browser tab. Implemented by the
// pipeline; a stub in tests.
type TabOpener interface {
	OpenTab(url string) error
}

// ShouldOpenTab reports whether activation on the given platform hands
// off to an AI tab.
//
// Strict isolation invariant: in custom mode the decision depends only
// on that platform's autoSubmit flag (unset means true); in global mode
// only on the global auto-fill flag. The two branches never cross-read
// each other's flags.
func ShouldOpenTab(cfg *settings.Settings, platform string) bool {
	if cfg.AIMode == settings.ModeCustom {
		svc := cfg.Service(platform)
		if svc.AutoSubmit == nil {
			return true
		}
		return *svc.AutoSubmit
	}
	return cfg.AutoFillEnabled
}

// ResolveTargetURL resolves the chat URL for the platform's active
// model: a user-configured override for that model when present,
// otherwise the fixed default.
func ResolveTargetURL(cfg *settings.Settings, platform string) string {
	model := cfg.ActiveModel(platform)

	if override, ok := cfg.ModelURLs[model]; ok && override != "" {
		return override
	}

	switch model {
	case settings.ModelClaude:
		return claudeURL
	case settings.ModelGemini:
		if cfg.GeminiAccount > 0 {
			return fmt.Sprintf("https://gemini.google.com/u/%d/app", cfg.GeminiAccount)
		}
		return geminiURL
	case settings.ModelGrok:
		return grokURL
	default:
		return chatGPTURL
	}
}

// Request carries one hand-off.
type Request struct {
	Prompt   string
	Platform string
}

// Execute performs the hand-off when enabled: the pending record is
// persisted first (last write wins over an unconsumed predecessor),
// then the provider tab is opened. Returns true when a tab was opened;
// false means the caller relies on the clipboard copy alone.
func Execute(req Request, cfg *settings.Settings, st *store.Store, opener TabOpener) (bool, error) {
	if !ShouldOpenTab(cfg, req.Platform) {
		return false, nil
	}

	if err := st.PutPending(store.Pending{Prompt: req.Prompt, Source: req.Platform}); err != nil {
		return false, fmt.Errorf("handoff: persist pending: %w", err)
	}

	url := ResolveTargetURL(cfg, req.Platform)
	if err := opener.OpenTab(url); err != nil {
		return false, fmt.Errorf("handoff: open %s: %w", url, err)
	}
	return true, nil
}
