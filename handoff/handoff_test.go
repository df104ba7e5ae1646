package handoff

import (
	"errors"
	"strings"
	"testing"

	"github.com/coursehand/coursehand/settings"
	"github.com/coursehand/coursehand/store"
)

type fakeOpener struct {
	urls []string
	err  error
}

func (f *fakeOpener) OpenTab(url string) error {
	if f.err != nil {
		return f.err
	}
	f.urls = append(f.urls, url)
	return nil
}

func boolPtr(b bool) *bool { return &b }

// In custom mode the decision must depend only on the platform's
// autoSubmit flag; in global mode only on the global flag. Exercised
// over every flag combination.
func TestShouldOpenTabIsolation(t *testing.T) {
	for _, globalFill := range []bool{true, false} {
		for _, autoSubmit := range []*bool{nil, boolPtr(true), boolPtr(false)} {
			cfg := settings.Defaults()
			cfg.AutoFillEnabled = globalFill
			cfg.ServiceSettings[settings.PlatformYouTube] = settings.ServiceConfig{
				Model:      settings.ModelChatGPT,
				PromptID:   "default",
				AutoSubmit: autoSubmit,
			}

			cfg.AIMode = settings.ModeGlobal
			if got := ShouldOpenTab(cfg, settings.PlatformYouTube); got != globalFill {
				t.Errorf("global mode: autoFill=%v autoSubmit=%v -> %v", globalFill, autoSubmit, got)
			}

			cfg.AIMode = settings.ModeCustom
			want := autoSubmit == nil || *autoSubmit
			if got := ShouldOpenTab(cfg, settings.PlatformYouTube); got != want {
				t.Errorf("custom mode: autoFill=%v autoSubmit=%v -> %v, want %v", globalFill, autoSubmit, got, want)
			}
		}
	}
}

func TestResolveTargetURL(t *testing.T) {
	cfg := settings.Defaults()

	tests := []struct {
		model string
		want  string
	}{
		{settings.ModelChatGPT, "https://chatgpt.com/"},
		{settings.ModelClaude, "https://claude.ai/new"},
		{settings.ModelGemini, "https://gemini.google.com/app"},
		{settings.ModelGrok, "https://grok.com/"},
	}
	for _, tt := range tests {
		cfg.SelectedModel = tt.model
		if got := ResolveTargetURL(cfg, settings.PlatformYouTube); got != tt.want {
			t.Errorf("%s -> %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestResolveTargetURLGeminiAccount(t *testing.T) {
	cfg := settings.Defaults()
	cfg.SelectedModel = settings.ModelGemini
	cfg.GeminiAccount = 2

	if got := ResolveTargetURL(cfg, settings.PlatformUdemy); got != "https://gemini.google.com/u/2/app" {
		t.Errorf("got %q", got)
	}
}

func TestResolveTargetURLOverride(t *testing.T) {
	cfg := settings.Defaults()
	cfg.SelectedModel = settings.ModelChatGPT
	cfg.ModelURLs = map[string]string{settings.ModelChatGPT: "https://chat.internal.example/"}

	if got := ResolveTargetURL(cfg, settings.PlatformYouTube); got != "https://chat.internal.example/" {
		t.Errorf("got %q", got)
	}
}

func TestResolveTargetURLCustomMode(t *testing.T) {
	cfg := settings.Defaults()
	cfg.AIMode = settings.ModeCustom
	cfg.SelectedModel = settings.ModelChatGPT
	cfg.ServiceSettings[settings.PlatformDataCamp] = settings.ServiceConfig{
		Model:    settings.ModelClaude,
		PromptID: "default",
	}

	if got := ResolveTargetURL(cfg, settings.PlatformDataCamp); got != "https://claude.ai/new" {
		t.Errorf("got %q", got)
	}
}

func TestExecuteOpensTabAndPersists(t *testing.T) {
	st := store.OpenMemory(t)
	cfg := settings.Defaults()
	cfg.SelectedModel = settings.ModelGemini
	opener := &fakeOpener{}

	opened, err := Execute(Request{Prompt: "the prompt", Platform: settings.PlatformYouTube}, cfg, st, opener)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !opened {
		t.Fatal("tab not opened")
	}
	if len(opener.urls) != 1 || !strings.Contains(opener.urls[0], "gemini.google.com") {
		t.Errorf("opened %v", opener.urls)
	}

	p, err := st.PeekPending()
	if err != nil {
		t.Fatalf("PeekPending: %v", err)
	}
	if p.Prompt != "the prompt" || p.Source != settings.PlatformYouTube {
		t.Errorf("pending = %+v", p)
	}
}

func TestExecuteDisabledLeavesNoPending(t *testing.T) {
	st := store.OpenMemory(t)
	cfg := settings.Defaults()
	cfg.AutoFillEnabled = false
	opener := &fakeOpener{}

	opened, err := Execute(Request{Prompt: "p", Platform: settings.PlatformUdemy}, cfg, st, opener)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if opened || len(opener.urls) != 0 {
		t.Error("tab opened despite disabled auto-fill")
	}
	if _, err := st.PeekPending(); !errors.Is(err, store.ErrNoPending) {
		t.Errorf("pending written despite disabled auto-fill: %v", err)
	}
}

// The pending record is written before the tab opens, so a failed open
// leaves it in place for a manually opened provider page.
func TestExecuteOpenFailureKeepsPending(t *testing.T) {
	st := store.OpenMemory(t)
	cfg := settings.Defaults()
	opener := &fakeOpener{err: errors.New("browser gone")}

	opened, err := Execute(Request{Prompt: "p", Platform: settings.PlatformYouTube}, cfg, st, opener)
	if err == nil {
		t.Fatal("open failure not surfaced")
	}
	if opened {
		t.Error("reported opened")
	}
	if _, err := st.PeekPending(); err != nil {
		t.Errorf("pending lost on open failure: %v", err)
	}
}
