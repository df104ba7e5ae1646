package platform

import (
	"context"
	"log/slog"
	"strings"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/notify"
	"github.com/coursehand/coursehand/settings"
)

// Coursera renders its transcript in an always-present tab panel, so
// there is no open step; the work here is injection-point discovery
// next to the "save note" affordance, with a graceful fallback into
// the secondary content container.
type Coursera struct {
	base
}

// NewCoursera creates the Coursera adapter for a tab.
func NewCoursera(tab *browser.Tab, logger *slog.Logger) *Coursera {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coursera{base{id: settings.PlatformCoursera, tab: tab, logger: logger}}
}

func (c *Coursera) Match(pageURL string) bool { return matchCoursera(pageURL) }

func (c *Coursera) IsVideoPage(ctx context.Context) bool {
	return strings.Contains(c.tab.URL(), "/lecture/")
}

var courseraAnchors = []anchorStrategy{
	{name: "save-note", selector: "button[data-testid='save-note-button']", mode: "after"},
	{name: "save-note-class", selector: "[class*='save-note']", mode: "after"},
	{name: "item-content", selector: ".item-page-content", mode: "prepend"},
	{name: "lecture-view", selector: ".rc-LectureItemView", mode: "prepend"},
}

func (c *Coursera) InsertButton(ctx context.Context) bool {
	return c.tryInsert(ctx, c.CreateButton(), courseraAnchors)
}

func (c *Coursera) PauseVideo(ctx context.Context) error {
	_, err := c.pauseVideoDirect(ctx)
	return err
}

func (c *Coursera) GetVideoTitle(ctx context.Context) string {
	return c.titleFrom(ctx,
		[]string{
			"h1[data-e2e='lecture-name']",
			".rc-LectureItemView h1",
			"[class*='video-name']",
		},
		[]string{"| Coursera"})
}

func (c *Coursera) GetVideoURL(ctx context.Context) string {
	return canonicalURL(c.tab.URL(), nil)
}

func (c *Coursera) NotificationOptions() notify.Options {
	return notify.Options{AnchorSelector: ".rc-VideoMiniPlayer, video"}
}

// GetTranscript: the panel is already in the DOM; capture and extract.
func (c *Coursera) GetTranscript(ctx context.Context, cfg *settings.Settings) (string, error) {
	return c.collectTranscript(ctx, cfg,
		".rc-Transcript",
		"[class*='transcript']",
		"[role='tabpanel']")
}
