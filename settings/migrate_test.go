package settings

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/coursehand/coursehand/prompt"
)

func TestMigrateEmptyRecord(t *testing.T) {
	s, migrated, err := Migrate(nil)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !migrated {
		t.Error("fresh defaults should report migrated")
	}
	if s.SchemaVersion != SchemaVersion || len(s.Prompts) != 1 {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestMigrateCurrentRecordPassesThrough(t *testing.T) {
	orig := Defaults()
	orig.SelectedModel = ModelGrok
	orig.Theme = "dark"
	raw, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}

	s, migrated, err := Migrate(raw)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if migrated {
		t.Error("intact current record reported migrated")
	}
	if s.SelectedModel != ModelGrok || s.Theme != "dark" {
		t.Errorf("record mangled: %+v", s)
	}
}

// A current record whose default template was removed by hand gets it
// restored on load.
func TestMigrateRestoresDefaultTemplate(t *testing.T) {
	orig := Defaults()
	orig.Prompts = []prompt.Template{{ID: "only", Name: "Only", Content: "x"}}
	raw, _ := json.Marshal(orig)

	s, migrated, err := Migrate(raw)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !migrated {
		t.Error("repair not reported")
	}
	if prompt.Find(s.Prompts, prompt.DefaultID).ID != prompt.DefaultID {
		t.Error("default template not restored")
	}
	if len(s.Prompts) != 2 {
		t.Errorf("prompts = %+v", s.Prompts)
	}
}

func TestMigrateLegacyScalars(t *testing.T) {
	raw := []byte(`{
		"aiMode": "custom",
		"selectedModel": "gemini",
		"theme": "dark",
		"copyFormat": "plain",
		"showButton": false,
		"autoFillEnabled": false,
		"geminiAccount": 2
	}`)

	s, migrated, err := Migrate(raw)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !migrated {
		t.Error("legacy record not reported migrated")
	}
	if s.AIMode != ModeCustom || s.SelectedModel != ModelGemini {
		t.Errorf("mode/model: %+v", s)
	}
	if s.Theme != "dark" || s.CopyFormat != FormatPlain {
		t.Errorf("theme/format: %+v", s)
	}
	if s.ShowButton || s.AutoFillEnabled {
		t.Error("explicit false flags flipped to defaults")
	}
	if s.GeminiAccount != 2 {
		t.Errorf("gemini account = %d", s.GeminiAccount)
	}
	if s.SchemaVersion != SchemaVersion {
		t.Errorf("schema version = %d", s.SchemaVersion)
	}
}

func TestMigrateLegacyCustomPrompt(t *testing.T) {
	raw := []byte(`{"customPrompt": "tl;dr: {{Transcript}}"}`)

	s, _, err := Migrate(raw)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if len(s.Prompts) != 2 {
		t.Fatalf("prompts = %+v", s.Prompts)
	}

	var migrated prompt.Template
	for _, p := range s.Prompts {
		if strings.HasPrefix(p.ID, "migrated-") {
			migrated = p
		}
	}
	if migrated.ID == "" {
		t.Fatal("no migrated template created")
	}
	if migrated.Content != "tl;dr: {{Transcript}}" {
		t.Errorf("content = %q", migrated.Content)
	}
	// Everything that resolves a prompt id points at the migrated entry.
	if s.GlobalPromptID != migrated.ID {
		t.Errorf("global prompt id = %q", s.GlobalPromptID)
	}
	for name, svc := range s.ServiceSettings {
		if svc.PromptID != migrated.ID {
			t.Errorf("service %s prompt id = %q", name, svc.PromptID)
		}
	}
}

// A legacy custom prompt identical to the built-in text creates no
// duplicate entry.
func TestMigrateLegacyDefaultPromptNotDuplicated(t *testing.T) {
	raw, _ := json.Marshal(map[string]string{"customPrompt": prompt.DefaultContent})

	s, _, err := Migrate(raw)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if len(s.Prompts) != 1 {
		t.Errorf("prompts = %+v", s.Prompts)
	}
	if s.GlobalPromptID != prompt.DefaultID {
		t.Errorf("global prompt id = %q", s.GlobalPromptID)
	}
}

func TestMigrateLegacyGeminiURL(t *testing.T) {
	raw := []byte(`{"geminiUrl": "https://gemini.google.com/u/3/app"}`)

	s, _, err := Migrate(raw)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if got := s.ModelURLs[ModelGemini]; got != "https://gemini.google.com/u/3/app" {
		t.Errorf("gemini url = %q", got)
	}

	// The modern map wins over the legacy field.
	raw = []byte(`{
		"geminiUrl": "https://old.example",
		"modelUrls": {"gemini": "https://new.example"}
	}`)
	s, _, err = Migrate(raw)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if got := s.ModelURLs[ModelGemini]; got != "https://new.example" {
		t.Errorf("gemini url = %q", got)
	}
}

func TestMigrateGarbage(t *testing.T) {
	if _, _, err := Migrate([]byte("{not json")); err == nil {
		t.Fatal("garbage accepted")
	}
}
