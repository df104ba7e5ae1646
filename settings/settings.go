// Package settings defines the persisted configuration record shared by
// the capture lifecycle, the hand-off bridge and the auto-fill agent,
// together with its defaults and schema migration.
package settings

import (
	"errors"
	"fmt"

	"github.com/coursehand/coursehand/prompt"
)

// Mode selects how the active AI model and prompt are resolved.
type Mode string

const (
	// ModeGlobal uses the global model, prompt and auto-fill flag for
	// every platform.
	ModeGlobal Mode = "global"
	// ModeCustom resolves model, prompt and auto-submit per platform.
	// In this mode the global auto-fill flag is never consulted.
	ModeCustom Mode = "custom"
)

// Supported platform identifiers.
const (
	PlatformYouTube  = "youtube"
	PlatformUdemy    = "udemy"
	PlatformCoursera = "coursera"
	PlatformDataCamp = "datacamp"
)

// Platforms lists all supported platform identifiers.
var Platforms = []string{PlatformYouTube, PlatformUdemy, PlatformCoursera, PlatformDataCamp}

// Supported AI model identifiers.
const (
	ModelChatGPT = "chatgpt"
	ModelGemini  = "gemini"
	ModelClaude  = "claude"
	ModelGrok    = "grok"
)

// Output formats for rendered transcripts.
const (
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
)

// ServiceConfig is the per-platform override used in custom mode.
type ServiceConfig struct {
	Model    string `json:"model"`
	PromptID string `json:"promptId"`
	// AutoSubmit is a tri-state: nil means "unset", which the bridge
	// treats as true.
	AutoSubmit *bool `json:"autoSubmit,omitempty"`
}

// Settings is the whole persisted configuration record. It is read
// before every button activation and written only by the options
// surface or the migration routine.
type Settings struct {
	SchemaVersion   int                      `json:"schemaVersion"`
	AIMode          Mode                     `json:"aiMode"`
	SelectedModel   string                   `json:"selectedModel"`
	GlobalPromptID  string                   `json:"globalPromptId"`
	ServiceSettings map[string]ServiceConfig `json:"serviceSettings"`
	Prompts         []prompt.Template        `json:"prompts"`
	// ModelURLs overrides the default chat URL per model id.
	ModelURLs map[string]string `json:"modelUrls,omitempty"`
	// GeminiAccount is the /u/<n>/ account-index segment for the Gemini
	// URL. Zero means the account-less default URL.
	GeminiAccount   int    `json:"geminiAccount,omitempty"`
	Theme           string `json:"theme"`
	CopyFormat      string `json:"copyFormat"`
	ShowButton      bool   `json:"showButton"`
	AutoFillEnabled bool   `json:"autoFillEnabled"`
}

// SchemaVersion of records written by this build.
const SchemaVersion = 2

// ErrLastTemplate is returned when deleting the sole remaining prompt
// template.
var ErrLastTemplate = errors.New("settings: cannot delete the last prompt template")

// ErrUnknownTemplate is returned when deleting a template that does not
// exist.
var ErrUnknownTemplate = errors.New("settings: unknown prompt template")

// Defaults returns the record created on first run.
func Defaults() *Settings {
	s := &Settings{
		SchemaVersion:   SchemaVersion,
		AIMode:          ModeGlobal,
		SelectedModel:   ModelChatGPT,
		GlobalPromptID:  prompt.DefaultID,
		ServiceSettings: make(map[string]ServiceConfig, len(Platforms)),
		Prompts:         []prompt.Template{prompt.Default()},
		Theme:           "system",
		CopyFormat:      FormatMarkdown,
		ShowButton:      true,
		AutoFillEnabled: true,
	}
	for _, p := range Platforms {
		s.ServiceSettings[p] = ServiceConfig{Model: ModelChatGPT, PromptID: prompt.DefaultID}
	}
	return s
}

// Service returns the per-platform config, falling back to a zero-value
// config for unknown platforms.
func (s *Settings) Service(platform string) ServiceConfig {
	if s.ServiceSettings == nil {
		return ServiceConfig{}
	}
	return s.ServiceSettings[platform]
}

// ActiveModel resolves the model id for a platform honouring the mode.
func (s *Settings) ActiveModel(platform string) string {
	if s.AIMode == ModeCustom {
		if svc := s.Service(platform); svc.Model != "" {
			return svc.Model
		}
	}
	if s.SelectedModel != "" {
		return s.SelectedModel
	}
	return ModelChatGPT
}

// ActivePromptID resolves the prompt id for a platform honouring the mode.
func (s *Settings) ActivePromptID(platform string) string {
	if s.AIMode == ModeCustom {
		if svc := s.Service(platform); svc.PromptID != "" {
			return svc.PromptID
		}
	}
	if s.GlobalPromptID != "" {
		return s.GlobalPromptID
	}
	return prompt.DefaultID
}

// AddPrompt appends a template to the library. IDs must be unique.
func (s *Settings) AddPrompt(t prompt.Template) error {
	for _, existing := range s.Prompts {
		if existing.ID == t.ID {
			return fmt.Errorf("settings: duplicate prompt id %q", t.ID)
		}
	}
	s.Prompts = append(s.Prompts, t)
	return nil
}

// DeletePrompt removes a template from the library. The default entry
// must always exist, so deleting it — or the sole remaining template —
// is rejected. Any global or per-service reference to the deleted
// template is reset to the default template.
func (s *Settings) DeletePrompt(id string) error {
	idx := -1
	for i, t := range s.Prompts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownTemplate
	}
	if len(s.Prompts) == 1 || id == prompt.DefaultID {
		return ErrLastTemplate
	}

	s.Prompts = append(s.Prompts[:idx], s.Prompts[idx+1:]...)

	if s.GlobalPromptID == id {
		s.GlobalPromptID = prompt.DefaultID
	}
	for name, svc := range s.ServiceSettings {
		if svc.PromptID == id {
			svc.PromptID = prompt.DefaultID
			s.ServiceSettings[name] = svc
		}
	}
	return nil
}
