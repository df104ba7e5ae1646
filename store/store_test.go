package store

import (
	"errors"
	"testing"

	"github.com/coursehand/coursehand/prompt"
	"github.com/coursehand/coursehand/settings"
)

func TestSettingsFirstRunCreatesDefaults(t *testing.T) {
	s := OpenMemory(t)

	cfg, err := s.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if cfg.SchemaVersion != settings.SchemaVersion {
		t.Errorf("schema version = %d", cfg.SchemaVersion)
	}

	// The defaults were written back: a second load sees the same record
	// without another migration.
	again, err := s.Settings()
	if err != nil {
		t.Fatalf("second Settings: %v", err)
	}
	if again.SelectedModel != cfg.SelectedModel || len(again.Prompts) != len(cfg.Prompts) {
		t.Errorf("reload mismatch: %+v vs %+v", again, cfg)
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	s := OpenMemory(t)

	cfg := settings.Defaults()
	cfg.SelectedModel = settings.ModelClaude
	cfg.Theme = "dark"
	if err := cfg.AddPrompt(prompt.Template{ID: "p1", Name: "P1", Content: "c"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSettings(cfg); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, err := s.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if got.SelectedModel != settings.ModelClaude || got.Theme != "dark" {
		t.Errorf("scalars lost: %+v", got)
	}
	if len(got.Prompts) != 2 {
		t.Errorf("prompts = %+v", got.Prompts)
	}
}

func TestPendingLifecycle(t *testing.T) {
	s := OpenMemory(t)

	if _, err := s.PeekPending(); !errors.Is(err, ErrNoPending) {
		t.Fatalf("peek on empty: %v", err)
	}

	want := Pending{Prompt: "summarize this", Source: "youtube"}
	if err := s.PutPending(want); err != nil {
		t.Fatalf("PutPending: %v", err)
	}

	got, err := s.PeekPending()
	if err != nil {
		t.Fatalf("PeekPending: %v", err)
	}
	if got != want {
		t.Errorf("peek = %+v, want %+v", got, want)
	}

	// Peek does not consume.
	if _, err := s.PeekPending(); err != nil {
		t.Fatalf("second peek: %v", err)
	}

	// Take consumes exactly once.
	got, err = s.TakePending()
	if err != nil {
		t.Fatalf("TakePending: %v", err)
	}
	if got != want {
		t.Errorf("take = %+v", got)
	}
	if _, err := s.TakePending(); !errors.Is(err, ErrNoPending) {
		t.Fatalf("second take: %v", err)
	}
}

// A second activation before consumption overwrites the first record.
func TestPendingLastWriteWins(t *testing.T) {
	s := OpenMemory(t)

	if err := s.PutPending(Pending{Prompt: "first", Source: "udemy"}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutPending(Pending{Prompt: "second", Source: "coursera"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.TakePending()
	if err != nil {
		t.Fatalf("TakePending: %v", err)
	}
	if got.Prompt != "second" || got.Source != "coursera" {
		t.Errorf("got %+v", got)
	}
}

func TestClearPending(t *testing.T) {
	s := OpenMemory(t)

	if err := s.ClearPending(); err != nil {
		t.Fatalf("clear on empty: %v", err)
	}
	if err := s.PutPending(Pending{Prompt: "x", Source: "youtube"}); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearPending(); err != nil {
		t.Fatalf("ClearPending: %v", err)
	}
	if _, err := s.PeekPending(); !errors.Is(err, ErrNoPending) {
		t.Fatalf("record survived clear: %v", err)
	}
}
