package platform

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/notify"
	"github.com/coursehand/coursehand/settings"
)

// YouTube keeps its transcript in a same-page sidebar that has to be
// opened first: expand the description, find the "show transcript"
// affordance (label text varies by UI language), then wait for the
// virtualized segment list to materialise.
type YouTube struct {
	base
}

// NewYouTube creates the YouTube adapter for a tab.
func NewYouTube(tab *browser.Tab, logger *slog.Logger) *YouTube {
	if logger == nil {
		logger = slog.Default()
	}
	return &YouTube{base{id: settings.PlatformYouTube, tab: tab, logger: logger}}
}

func (y *YouTube) Match(pageURL string) bool { return matchYouTube(pageURL) }

// IsVideoPage: watch pages only; shorts and channel pages have no
// transcript sidebar.
func (y *YouTube) IsVideoPage(ctx context.Context) bool {
	u, err := url.Parse(y.tab.URL())
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, "/watch") && u.Query().Get("v") != ""
}

var youtubeAnchors = []anchorStrategy{
	{name: "actions-row", selector: "#actions #top-level-buttons-computed", mode: "prepend"},
	{name: "owner-row", selector: "#owner", mode: "after"},
	{name: "below-title", selector: "#above-the-fold #title", mode: "after"},
	{name: "generic-append", selector: "ytd-watch-metadata", mode: "append"},
}

// InsertButton runs the anchor strategies once per call; the lifecycle
// re-triggers on navigation and button removal, so no attempt cap is
// needed here.
func (y *YouTube) InsertButton(ctx context.Context) bool {
	return y.tryInsert(ctx, y.CreateButton(), youtubeAnchors)
}

func (y *YouTube) PauseVideo(ctx context.Context) error {
	_, err := y.pauseVideoDirect(ctx)
	return err
}

func (y *YouTube) GetVideoTitle(ctx context.Context) string {
	return y.titleFrom(ctx,
		[]string{
			"h1.ytd-watch-metadata yt-formatted-string",
			"#above-the-fold #title yt-formatted-string",
			"h1.title",
		},
		[]string{"- YouTube"})
}

func (y *YouTube) GetVideoURL(ctx context.Context) string {
	return canonicalURL(y.tab.URL(), []string{"v"})
}

func (y *YouTube) NotificationOptions() notify.Options {
	return notify.Options{AnchorSelector: "#movie_player"}
}

// showTranscriptLabels matches the "show transcript" affordance across
// UI languages, compared lowercase.
var showTranscriptLabels = []string{
	"show transcript",
	"transcript anzeigen",
	"afficher la transcription",
	"mostrar transcripción",
	"mostrar transcrição",
	"transcriptie weergeven",
	"文字起こしを表示",
	"스크립트 표시",
}

const openTranscriptJS = `(labels) => {
	// The dedicated description section button is the reliable path.
	const section = document.querySelector(
		'ytd-video-description-transcript-section-renderer button');
	if (section) { section.click(); return 'clicked'; }

	// Fall back to matching button text or accessible label.
	const wanted = labels.map(l => l.toLowerCase());
	const buttons = document.querySelectorAll('button, ytd-button-renderer, tp-yt-paper-button');
	for (const b of buttons) {
		const text = ((b.textContent || '') + ' ' + (b.getAttribute('aria-label') || '')).toLowerCase();
		if (wanted.some(w => text.includes(w))) { b.click(); return 'clicked'; }
	}
	return 'not-found';
}`

const expandDescriptionJS = `() => {
	const expand = document.querySelector('#description tp-yt-paper-button#expand, #expand');
	if (expand && expand.offsetParent !== null) { expand.click(); return 'expanded'; }
	return 'already';
}`

func (y *YouTube) openTranscript(ctx context.Context) bool {
	if _, err := y.tab.Eval(ctx, expandDescriptionJS); err != nil {
		y.logger.Debug("youtube: expand description failed", "error", err)
	}
	// Give the expanded description a beat to render its buttons.
	select {
	case <-ctx.Done():
		return false
	case <-time.After(500 * time.Millisecond):
	}

	res, err := y.tab.Eval(ctx, openTranscriptJS, showTranscriptLabels)
	if err != nil {
		y.logger.Debug("youtube: open transcript failed", "error", err)
		return false
	}
	return res.Value.Str() == "clicked"
}

// Scroll-stability policy for the virtualized segment list: scrolling
// stops after three consecutive unchanged heights, with a hard
// iteration cap so pathological videos still terminate.
const (
	scrollStableHeights = 3
	scrollMaxIterations = 60
	scrollInterval      = 400 * time.Millisecond
)

const scrollStepJS = `() => {
	const c = document.querySelector('ytd-transcript-segment-list-renderer #segments-container')
		|| document.querySelector('#segments-container');
	if (!c) return -1;
	c.scrollTop = c.scrollHeight;
	return c.scrollHeight;
}`

// scrollTranscriptToEnd forces the lazy-loaded segment list to
// materialise fully before capture.
func (y *YouTube) scrollTranscriptToEnd(ctx context.Context) {
	stable := 0
	lastHeight := -2

	for i := 0; i < scrollMaxIterations && stable < scrollStableHeights; i++ {
		res, err := y.tab.Eval(ctx, scrollStepJS)
		if err != nil {
			return
		}
		height := res.Value.Int()
		if height == lastHeight {
			stable++
		} else {
			stable = 0
			lastHeight = height
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(scrollInterval):
		}
	}
}

var youtubeSegmentSelectors = []string{
	"ytd-transcript-segment-renderer",
	"[class*='transcript-segment']",
}

func (y *YouTube) GetTranscript(ctx context.Context, cfg *settings.Settings) (string, error) {
	for attempt := 0; attempt <= openRetries; attempt++ {
		y.openTranscript(ctx)
		if _, ok := y.tab.WaitFor(ctx, transcriptWait, youtubeSegmentSelectors...); ok {
			break
		}
		if attempt == openRetries {
			return "", nil
		}
	}

	y.scrollTranscriptToEnd(ctx)

	return y.collectTranscript(ctx, cfg,
		"ytd-transcript-segment-list-renderer",
		"#segments-container",
		"ytd-transcript-renderer")
}
