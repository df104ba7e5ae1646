package platform

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/notify"
	"github.com/coursehand/coursehand/settings"
)

// Udemy toggles its transcript panel with an aria-expanded control.
// Pausing falls back from the media element to the player's own
// play/pause control when the element state is ambiguous.
type Udemy struct {
	base
}

// NewUdemy creates the Udemy adapter for a tab.
func NewUdemy(tab *browser.Tab, logger *slog.Logger) *Udemy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Udemy{base{id: settings.PlatformUdemy, tab: tab, logger: logger}}
}

func (u *Udemy) Match(pageURL string) bool { return matchUdemy(pageURL) }

func (u *Udemy) IsVideoPage(ctx context.Context) bool {
	return strings.Contains(u.tab.URL(), "/learn/lecture/")
}

var udemyAnchors = []anchorStrategy{
	{name: "controls-bar", selector: "[data-purpose='video-controls']", mode: "append"},
	{name: "lecture-toolbar", selector: "[class*='lecture-toolbar']", mode: "prepend"},
	{name: "player-container", selector: ".video-player--container--YDQRW, [class*='video-player--container']", mode: "after"},
	{name: "generic-append", selector: "main", mode: "prepend"},
}

func (u *Udemy) InsertButton(ctx context.Context) bool {
	return u.tryInsert(ctx, u.CreateButton(), udemyAnchors)
}

// PauseVideo: direct media pause first; when the element is missing or
// its state stays ambiguous, click the platform's own play/pause
// control instead.
func (u *Udemy) PauseVideo(ctx context.Context) error {
	state, err := u.pauseVideoDirect(ctx)
	if err == nil && state == "paused" {
		return nil
	}

	if el, ok := u.tab.Find(ctx,
		"button[data-purpose='play-button']",
		"button[data-purpose='pause-button']"); ok {
		return u.tab.ClickElement(ctx, el)
	}
	return err
}

func (u *Udemy) GetVideoTitle(ctx context.Context) string {
	return u.titleFrom(ctx,
		[]string{
			"[data-purpose='lecture-title']",
			"h1[data-purpose='course-header-title']",
			"[class*='lecture-view--title']",
		},
		[]string{"| Udemy"})
}

func (u *Udemy) GetVideoURL(ctx context.Context) string {
	return canonicalURL(u.tab.URL(), nil)
}

func (u *Udemy) NotificationOptions() notify.Options {
	return notify.Options{AnchorSelector: "[data-purpose='video-display']"}
}

const udemyToggleJS = `() => {
	const toggle = document.querySelector("button[data-purpose='transcript-toggle']");
	if (!toggle) return 'not-found';
	if (toggle.getAttribute('aria-expanded') === 'true') return 'open';
	toggle.click();
	return 'clicked';
}`

func (u *Udemy) openTranscript(ctx context.Context) bool {
	res, err := u.tab.Eval(ctx, udemyToggleJS)
	if err != nil {
		u.logger.Debug("udemy: transcript toggle failed", "error", err)
		return false
	}
	return res.Value.Str() != "not-found"
}

var udemySegmentSelectors = []string{
	"[data-purpose='transcript-cue']",
	"[class*='transcript--cue']",
}

func (u *Udemy) GetTranscript(ctx context.Context, cfg *settings.Settings) (string, error) {
	for attempt := 0; attempt <= openRetries; attempt++ {
		u.openTranscript(ctx)
		if _, ok := u.tab.WaitFor(ctx, transcriptWait, udemySegmentSelectors...); ok {
			break
		}
		if attempt == openRetries {
			return "", nil
		}
		// The toggle sometimes needs a second click after the panel
		// animation settles.
		select {
		case <-ctx.Done():
			return "", nil
		case <-time.After(500 * time.Millisecond):
		}
	}

	return u.collectTranscript(ctx, cfg,
		"[data-purpose='transcript-panel']",
		"[class*='transcript--container']")
}
