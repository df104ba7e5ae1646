// Package pipeline is the top-level orchestrator: it owns the browser
// session, routes learning-platform tabs to their adapter lifecycles
// and AI-provider tabs to the auto-fill agent, and serializes the
// hand-off between the two through the shared store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/coursehand/coursehand/autofill"
	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/platform"
	"github.com/coursehand/coursehand/store"
)

// tabKind classifies what a tab currently shows.
type tabKind string

const (
	kindOther    tabKind = "other"
	kindPlatform tabKind = "platform"
	kindProvider tabKind = "provider"
)

type trackedTab struct {
	kind tabKind
	// platformID disambiguates platform tabs: a hard navigation from
	// one learning platform straight to another keeps kindPlatform but
	// needs a fresh adapter.
	platformID string
	cancel     context.CancelFunc
}

// matches reports whether the tracked handler still fits what the tab
// now shows.
func (t *trackedTab) matches(kind tabKind, platformID string) bool {
	return t.kind == kind && t.platformID == platformID
}

// Runner drives the whole pipeline. Create one per process.
type Runner struct {
	cfg      *Config
	mgr      *browser.Manager
	st       *store.Store
	registry *platform.Registry
	agent    *autofill.Agent
	logger   *slog.Logger

	mu      sync.Mutex
	tracked map[proto.TargetTargetID]*trackedTab
}

// New creates a Runner from configuration and an opened store.
func New(cfg *Config, st *store.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg: cfg,
		mgr: browser.NewManager(browser.Config{
			RemoteURL: cfg.Browser.Remote,
			Headless:  cfg.Browser.Headless,
			Logger:    logger,
		}),
		st:       st,
		registry: platform.NewRegistry(),
		agent:    autofill.NewAgent(st, logger),
		logger:   logger,
		tracked:  make(map[proto.TargetTargetID]*trackedTab),
	}
}

// Manager exposes the browser manager (the extract command reuses it).
func (r *Runner) Manager() *browser.Manager { return r.mgr }

// Start connects the browser and begins the tab scan loop. It blocks
// until the context ends.
func (r *Runner) Start(ctx context.Context) error {
	if _, err := r.mgr.Start(ctx); err != nil {
		return fmt.Errorf("pipeline: start browser: %w", err)
	}
	defer r.mgr.Close()

	r.logger.Info("pipeline: watching tabs", "interval", r.cfg.Scan.Interval)

	ticker := time.NewTicker(r.cfg.Scan.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.scan(ctx)
		}
	}
}

// OpenTab opens a URL in a new browser tab. Implements handoff.TabOpener.
func (r *Runner) OpenTab(url string) error {
	b := r.mgr.Browser()
	if b == nil {
		return fmt.Errorf("pipeline: no active browser")
	}
	if _, err := b.Page(proto.TargetCreateTarget{URL: url}); err != nil {
		return fmt.Errorf("pipeline: open tab: %w", err)
	}
	return nil
}

// scan classifies every open page and attaches handlers to new or
// re-purposed tabs. A tab navigated to a different site class gets its
// old handler cancelled and a fresh one attached.
func (r *Runner) scan(ctx context.Context) {
	pages, err := r.mgr.Pages()
	if err != nil {
		r.logger.Debug("pipeline: list pages", "error", err)
		return
	}

	alive := make(map[proto.TargetTargetID]bool, len(pages))

	for _, page := range pages {
		info, err := page.Info()
		if err != nil {
			continue
		}
		alive[info.TargetID] = true

		kind := r.classify(info.URL)
		var platformID string
		if kind == kindPlatform {
			platformID = r.registry.PlatformID(info.URL)
		}

		r.mu.Lock()
		existing := r.tracked[info.TargetID]
		if existing != nil && existing.matches(kind, platformID) {
			r.mu.Unlock()
			continue
		}
		if existing != nil && existing.cancel != nil {
			existing.cancel()
		}
		tabCtx, cancel := context.WithCancel(ctx)
		r.tracked[info.TargetID] = &trackedTab{kind: kind, platformID: platformID, cancel: cancel}
		r.mu.Unlock()

		switch kind {
		case kindPlatform:
			r.attachPlatform(tabCtx, page, info.URL)
		case kindProvider:
			r.attachProvider(tabCtx, page)
		}
	}

	// Forget closed tabs.
	r.mu.Lock()
	for id, t := range r.tracked {
		if !alive[id] {
			if t.cancel != nil {
				t.cancel()
			}
			delete(r.tracked, id)
		}
	}
	r.mu.Unlock()
}

func (r *Runner) classify(url string) tabKind {
	switch {
	case r.registry.Matches(url):
		return kindPlatform
	case autofill.IsProviderURL(url):
		return kindProvider
	default:
		return kindOther
	}
}

func (r *Runner) attachPlatform(ctx context.Context, page *rod.Page, url string) {
	tab, err := browser.Attach(page)
	if err != nil {
		r.logger.Warn("pipeline: attach platform tab", "error", err)
		return
	}

	adapter := r.registry.For(url, tab, r.logger)
	if adapter == nil {
		return
	}

	lc := platform.NewLifecycle(adapter, tab, r.st, r, r.logger)
	if err := lc.Initialize(ctx); err != nil {
		r.logger.Error("pipeline: lifecycle init",
			"platform", adapter.ID(), "error", err)
		return
	}
	r.logger.Info("pipeline: platform tab attached",
		"platform", adapter.ID(), "url", url)
}

func (r *Runner) attachProvider(ctx context.Context, page *rod.Page) {
	tab, err := browser.Attach(page)
	if err != nil {
		r.logger.Warn("pipeline: attach provider tab", "error", err)
		return
	}

	go func() {
		if err := r.agent.Run(ctx, tab); err != nil {
			r.logger.Error("pipeline: autofill", "error", err)
		}
	}()
}
