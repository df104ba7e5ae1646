// Package platform implements the per-site capture adapters and the
// shared activation lifecycle that drives them. An adapter supplies the
// site-specific knowledge — where the button anchors, how the video
// pauses, how the transcript UI opens — while the lifecycle owns the
// fixed sequence every platform honours.
package platform

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/notify"
	"github.com/coursehand/coursehand/settings"
)

// ButtonID is the DOM id of the injected capture button. Insertion is
// idempotent on this id: a second insert while the button exists is a
// no-op.
const ButtonID = "coursehand-capture-btn"

// Adapter is the capability set a platform integration must implement.
type Adapter interface {
	// ID returns the platform identifier ("youtube", "udemy", ...).
	ID() string

	// Match reports whether this adapter handles the page URL. Pure.
	Match(pageURL string) bool

	// IsVideoPage reports whether the current page is a video/lecture
	// page worth injecting into. No side effects.
	IsVideoPage(ctx context.Context) bool

	// InsertButton locates an anchor via the adapter's ordered
	// strategies and inserts the capture button. Reports whether the
	// button is present afterwards.
	InsertButton(ctx context.Context) bool

	// CreateButton returns the platform-styled button HTML.
	CreateButton() string

	// PauseVideo pauses the host player, best effort.
	PauseVideo(ctx context.Context) error

	// GetVideoTitle extracts the video title, falling back to a cleaned
	// page title.
	GetVideoTitle(ctx context.Context) string

	// GetVideoURL extracts the canonical video URL with volatile query
	// parameters stripped.
	GetVideoURL(ctx context.Context) string

	// GetTranscript opens the platform's transcript UI when needed,
	// scrapes it and renders it in the configured output format. An
	// empty string means no usable transcript; it is not an error.
	GetTranscript(ctx context.Context, cfg *settings.Settings) (string, error)
}

// Notifier is optionally implemented by adapters that want toasts
// anchored near their player.
type Notifier interface {
	NotificationOptions() notify.Options
}

// Registry selects an adapter by URL.
type Registry struct {
	ids       []string
	factories []func(tab *browser.Tab, logger *slog.Logger) Adapter
	probes    []func(pageURL string) bool
}

// NewRegistry returns a registry with all four built-in platforms.
func NewRegistry() *Registry {
	r := &Registry{}
	r.register(settings.PlatformYouTube, matchYouTube, func(t *browser.Tab, l *slog.Logger) Adapter { return NewYouTube(t, l) })
	r.register(settings.PlatformUdemy, matchUdemy, func(t *browser.Tab, l *slog.Logger) Adapter { return NewUdemy(t, l) })
	r.register(settings.PlatformCoursera, matchCoursera, func(t *browser.Tab, l *slog.Logger) Adapter { return NewCoursera(t, l) })
	r.register(settings.PlatformDataCamp, matchDataCamp, func(t *browser.Tab, l *slog.Logger) Adapter { return NewDataCamp(t, l) })
	return r
}

func (r *Registry) register(id string, probe func(string) bool, f func(*browser.Tab, *slog.Logger) Adapter) {
	r.ids = append(r.ids, id)
	r.probes = append(r.probes, probe)
	r.factories = append(r.factories, f)
}

// For returns an adapter instance for the page URL, or nil when no
// platform matches.
func (r *Registry) For(pageURL string, tab *browser.Tab, logger *slog.Logger) Adapter {
	for i, probe := range r.probes {
		if probe(pageURL) {
			return r.factories[i](tab, logger)
		}
	}
	return nil
}

// PlatformID returns the identifier of the platform handling the URL,
// or "" when none matches.
func (r *Registry) PlatformID(pageURL string) string {
	for i, probe := range r.probes {
		if probe(pageURL) {
			return r.ids[i]
		}
	}
	return ""
}

// Matches reports whether any platform handles the URL.
func (r *Registry) Matches(pageURL string) bool {
	for _, probe := range r.probes {
		if probe(pageURL) {
			return true
		}
	}
	return false
}

func hostIs(pageURL string, domains ...string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func matchYouTube(pageURL string) bool  { return hostIs(pageURL, "youtube.com", "youtu.be") }
func matchUdemy(pageURL string) bool    { return hostIs(pageURL, "udemy.com") }
func matchCoursera(pageURL string) bool { return hostIs(pageURL, "coursera.org") }
func matchDataCamp(pageURL string) bool { return hostIs(pageURL, "datacamp.com") }
