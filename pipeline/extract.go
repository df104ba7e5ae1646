package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/platform"
	"github.com/coursehand/coursehand/settings"
	"github.com/coursehand/coursehand/store"
)

// ExtractResult is one headless transcript capture.
type ExtractResult struct {
	Platform   string `json:"platform"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Transcript string `json:"transcript"`
}

// ExtractOnce opens the URL in a fresh tab, runs the matching platform
// adapter's transcript extraction and closes the tab. It is the
// one-shot path used by the extract command and the MCP tools; the
// button lifecycle is not involved.
func ExtractOnce(ctx context.Context, mgr *browser.Manager, st *store.Store, pageURL, format string, logger *slog.Logger) (*ExtractResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry := platform.NewRegistry()
	if !registry.Matches(pageURL) {
		return nil, fmt.Errorf("pipeline: no supported platform for %s", pageURL)
	}

	tab, err := browser.OpenTab(ctx, mgr, pageURL)
	if err != nil {
		return nil, err
	}
	defer tab.Close()

	adapter := registry.For(pageURL, tab, logger)
	if adapter == nil {
		return nil, fmt.Errorf("pipeline: no supported platform for %s", pageURL)
	}
	if !adapter.IsVideoPage(ctx) {
		return nil, fmt.Errorf("pipeline: %s is not a video page", pageURL)
	}

	cfg, err := st.Settings()
	if err != nil {
		return nil, err
	}
	if format != "" {
		cfg.CopyFormat = format
	}

	text, err := adapter.GetTranscript(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: extract transcript: %w", err)
	}
	if text == "" {
		return nil, fmt.Errorf("pipeline: no transcript found on %s", pageURL)
	}

	return &ExtractResult{
		Platform:   adapter.ID(),
		Title:      adapter.GetVideoTitle(ctx),
		URL:        adapter.GetVideoURL(ctx),
		Transcript: text,
	}, nil
}

// ValidFormat reports whether format names a known transcript rendering.
func ValidFormat(format string) bool {
	switch format {
	case "", settings.FormatMarkdown, settings.FormatPlain:
		return true
	}
	return false
}
