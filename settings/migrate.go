package settings

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/coursehand/coursehand/prompt"
)

// legacyRecord is the superset of every persisted shape we have shipped.
// Older builds stored a single free-text prompt and a dedicated Gemini
// URL override instead of the prompt library and the per-model URL map.
type legacyRecord struct {
	SchemaVersion   *int                      `json:"schemaVersion"`
	AIMode          string                    `json:"aiMode"`
	SelectedModel   string                    `json:"selectedModel"`
	GlobalPromptID  string                    `json:"globalPromptId"`
	ServiceSettings map[string]ServiceConfig  `json:"serviceSettings"`
	Prompts         *[]prompt.Template        `json:"prompts"`
	ModelURLs       map[string]string         `json:"modelUrls"`
	GeminiURL       string                    `json:"geminiUrl"`
	GeminiAccount   int                       `json:"geminiAccount"`
	CustomPrompt    string                    `json:"customPrompt"`
	Theme           string                    `json:"theme"`
	CopyFormat      string                    `json:"copyFormat"`
	ShowButton      *bool                     `json:"showButton"`
	AutoFillEnabled *bool                     `json:"autoFillEnabled"`
}

// Migrate decodes a persisted record of any known schema generation and
// returns the current shape. The second return reports whether the
// record changed and should be written back.
//
// Migration is deterministic and never destroys user customization: all
// previously set scalars are preserved, the legacy single custom prompt
// becomes a library entry unless it exactly matches the built-in
// default text, and the legacy Gemini URL override moves into the
// per-model URL map.
func Migrate(raw []byte) (*Settings, bool, error) {
	if len(raw) == 0 {
		return Defaults(), true, nil
	}

	var legacy legacyRecord
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, false, fmt.Errorf("settings: decode record: %w", err)
	}

	current := legacy.SchemaVersion != nil && *legacy.SchemaVersion >= SchemaVersion &&
		legacy.Prompts != nil
	if current {
		var s Settings
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false, fmt.Errorf("settings: decode record: %w", err)
		}
		normalized := normalize(&s)
		return &s, normalized, nil
	}

	s := Defaults()

	// Preserve scalars the legacy record had set.
	if legacy.AIMode == string(ModeCustom) {
		s.AIMode = ModeCustom
	}
	if legacy.SelectedModel != "" {
		s.SelectedModel = legacy.SelectedModel
	}
	if legacy.GlobalPromptID != "" {
		s.GlobalPromptID = legacy.GlobalPromptID
	}
	if legacy.Theme != "" {
		s.Theme = legacy.Theme
	}
	if legacy.CopyFormat != "" {
		s.CopyFormat = legacy.CopyFormat
	}
	if legacy.ShowButton != nil {
		s.ShowButton = *legacy.ShowButton
	}
	if legacy.AutoFillEnabled != nil {
		s.AutoFillEnabled = *legacy.AutoFillEnabled
	}
	if legacy.GeminiAccount > 0 {
		s.GeminiAccount = legacy.GeminiAccount
	}
	for name, svc := range legacy.ServiceSettings {
		s.ServiceSettings[name] = svc
	}

	// URL overrides: the modern map wins, the legacy geminiUrl field is
	// folded in when the map has no Gemini entry.
	if len(legacy.ModelURLs) > 0 {
		s.ModelURLs = legacy.ModelURLs
	}
	if legacy.GeminiURL != "" {
		if s.ModelURLs == nil {
			s.ModelURLs = make(map[string]string, 1)
		}
		if _, ok := s.ModelURLs[ModelGemini]; !ok {
			s.ModelURLs[ModelGemini] = legacy.GeminiURL
		}
	}

	// Prompt library. Records that already carry one keep it (plus the
	// default guarantee); records predating the library get the default
	// entry, and a differing legacy custom prompt becomes a second
	// migrated entry referenced everywhere a prompt id is resolved.
	if legacy.Prompts != nil {
		s.Prompts = *legacy.Prompts
	} else if legacy.CustomPrompt != "" && legacy.CustomPrompt != prompt.DefaultContent {
		migrated := prompt.Template{
			ID:          "migrated-" + uuid.NewString(),
			Name:        "Migrated prompt",
			Description: "Prompt carried over from a previous version",
			Content:     legacy.CustomPrompt,
		}
		s.Prompts = append(s.Prompts, migrated)
		s.GlobalPromptID = migrated.ID
		for name, svc := range s.ServiceSettings {
			svc.PromptID = migrated.ID
			s.ServiceSettings[name] = svc
		}
	}

	normalize(s)
	s.SchemaVersion = SchemaVersion
	return s, true, nil
}

// normalize repairs invariants on an already-current record. Returns
// true when anything changed.
func normalize(s *Settings) bool {
	changed := false

	if s.ServiceSettings == nil {
		s.ServiceSettings = make(map[string]ServiceConfig, len(Platforms))
		changed = true
	}
	for _, p := range Platforms {
		if _, ok := s.ServiceSettings[p]; !ok {
			s.ServiceSettings[p] = ServiceConfig{Model: s.SelectedModel, PromptID: prompt.DefaultID}
			changed = true
		}
	}

	hasDefault := false
	for _, t := range s.Prompts {
		if t.ID == prompt.DefaultID {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		s.Prompts = append([]prompt.Template{prompt.Default()}, s.Prompts...)
		changed = true
	}

	if s.AIMode != ModeCustom && s.AIMode != ModeGlobal {
		s.AIMode = ModeGlobal
		changed = true
	}
	if s.CopyFormat != FormatMarkdown && s.CopyFormat != FormatPlain {
		s.CopyFormat = FormatMarkdown
		changed = true
	}
	return changed
}
