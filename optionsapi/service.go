// Package optionsapi serves the local settings surface over HTTP: the
// whole settings record, per-field patches and the prompt template
// library. It is the only writer of the settings record besides the
// migration routine.
package optionsapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/coursehand/coursehand/prompt"
	"github.com/coursehand/coursehand/settings"
	"github.com/coursehand/coursehand/store"
)

// Service exposes settings and prompt management over HTTP.
type Service struct {
	st     *store.Store
	logger *slog.Logger
}

// New creates the options service over the shared store.
func New(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{st: st, logger: logger}
}

// RegisterHTTP registers the options endpoints on the router.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Get("/api/v1/settings", s.handleGetSettings)
	r.Put("/api/v1/settings", s.handlePutSettings)

	r.Get("/api/v1/prompts", s.handleListPrompts)
	r.Post("/api/v1/prompts", s.handleAddPrompt)
	r.Delete("/api/v1/prompts/{id}", s.handleDeletePrompt)
}

// Handler returns a standalone router with the endpoints registered.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterHTTP(r)
	return r
}

func (s *Service) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.st.Settings()
	if err != nil {
		s.logger.Error("optionsapi: load settings", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handlePutSettings replaces the whole record. The body is decoded over
// the current record, so omitted fields keep their stored value. The
// next load runs the stored record through normalization again, which
// keeps the default-template guarantee even across hand-edited bodies.
func (s *Service) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.st.Settings()
	if err != nil {
		s.logger.Error("optionsapi: load settings", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(current); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate(current); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	current.SchemaVersion = settings.SchemaVersion
	if err := s.st.SaveSettings(current); err != nil {
		s.logger.Error("optionsapi: save settings", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	s.logger.Info("optionsapi: settings updated",
		"mode", current.AIMode, "model", current.SelectedModel)
	writeJSON(w, http.StatusOK, current)
}

func (s *Service) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.st.Settings()
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cfg.Prompts)
}

// AddPromptRequest is the body for POST /api/v1/prompts. An empty id is
// assigned a fresh UUID.
type AddPromptRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

func (s *Service) handleAddPrompt(w http.ResponseWriter, r *http.Request) {
	var req AddPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Content) == "" {
		http.Error(w, "name and content required", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	cfg, err := s.st.Settings()
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	tpl := prompt.Template{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
	}
	if err := cfg.AddPrompt(tpl); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err := s.st.SaveSettings(cfg); err != nil {
		s.logger.Error("optionsapi: save settings", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	s.logger.Info("optionsapi: prompt added", "id", tpl.ID, "name", tpl.Name)
	writeJSON(w, http.StatusCreated, tpl)
}

func (s *Service) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cfg, err := s.st.Settings()
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	switch err := cfg.DeletePrompt(id); {
	case errors.Is(err, settings.ErrUnknownTemplate):
		http.Error(w, "Prompt not found", http.StatusNotFound)
		return
	case errors.Is(err, settings.ErrLastTemplate):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if err := s.st.SaveSettings(cfg); err != nil {
		s.logger.Error("optionsapi: save settings", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	s.logger.Info("optionsapi: prompt deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func validate(cfg *settings.Settings) error {
	switch cfg.AIMode {
	case settings.ModeGlobal, settings.ModeCustom:
	default:
		return errors.New("aiMode must be 'global' or 'custom'")
	}
	switch cfg.CopyFormat {
	case settings.FormatMarkdown, settings.FormatPlain:
	default:
		return errors.New("copyFormat must be 'markdown' or 'plain'")
	}
	if !validModel(cfg.SelectedModel) {
		return errors.New("selectedModel is not a known model")
	}
	for name, svc := range cfg.ServiceSettings {
		if svc.Model != "" && !validModel(svc.Model) {
			return errors.New("serviceSettings." + name + ".model is not a known model")
		}
	}
	if len(cfg.Prompts) == 0 {
		return errors.New("prompts must not be empty")
	}
	return nil
}

func validModel(id string) bool {
	switch id {
	case settings.ModelChatGPT, settings.ModelGemini, settings.ModelClaude, settings.ModelGrok:
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
