package platform

import (
	"context"
	"log/slog"
	"strings"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/notify"
	"github.com/coursehand/coursehand/settings"
)

// DataCamp is the hardest platform: the video sits in a cross-origin
// iframe (direct pause is impossible — we post a message across the
// frame boundary and accept that it may be ignored), and two host UI
// generations coexist in the wild: the legacy side-panel transcript
// and the tabbed "AI Coach" view. Both are detected and handled, with
// separate button placements and a retry budget shared across all
// strategies.
type DataCamp struct {
	base
	insertAttempts int
}

// dataCampMaxInsertAttempts caps button-insertion attempts across all
// placement strategies; the DataCamp DOM is too unreliable for the
// unbounded navigation-retriggered retry the other platforms use.
const dataCampMaxInsertAttempts = 10

// NewDataCamp creates the DataCamp adapter for a tab.
func NewDataCamp(tab *browser.Tab, logger *slog.Logger) *DataCamp {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataCamp{base: base{id: settings.PlatformDataCamp, tab: tab, logger: logger}}
}

func (d *DataCamp) Match(pageURL string) bool { return matchDataCamp(pageURL) }

func (d *DataCamp) IsVideoPage(ctx context.Context) bool {
	url := d.tab.URL()
	if !strings.Contains(url, "/courses/") {
		return false
	}
	// Video exercises carry the player iframe or a transcript surface.
	_, ok := d.tab.Find(ctx,
		"iframe[title*='video' i]",
		"[data-cy='video-iframe']",
		"[data-cy='transcript-tab']",
		"[data-testid='ai-coach-panel']")
	return ok
}

// uiGeneration discriminates the two DataCamp frontends.
type uiGeneration int

const (
	uiUnknown uiGeneration = iota
	uiLegacy
	uiAICoach
)

func (d *DataCamp) detectGeneration(ctx context.Context) uiGeneration {
	if _, ok := d.tab.Find(ctx, "[data-testid='ai-coach-panel']", "[data-testid*='ai-coach']"); ok {
		return uiAICoach
	}
	if _, ok := d.tab.Find(ctx, ".exercise--sidebar", "[data-cy='transcript-tab']"); ok {
		return uiLegacy
	}
	return uiUnknown
}

// Placement strategies in priority order; the floating button is the
// last resort that cannot fail on a rendered page.
var dataCampLegacyAnchors = []anchorStrategy{
	{name: "legacy-sidebar-header", selector: ".exercise--sidebar [class*='header']", mode: "append"},
	{name: "legacy-tab-bar", selector: "[data-cy='transcript-tab']", mode: "after"},
	{name: "exercise-title", selector: ".exercise--title", mode: "append"},
	{name: "generic-main", selector: "main", mode: "prepend"},
	{name: "floating", selector: "", mode: "float"},
}

var dataCampAICoachAnchors = []anchorStrategy{
	{name: "coach-tab-header", selector: "[data-testid='ai-coach-panel'] [role='tablist']", mode: "append"},
	{name: "coach-panel", selector: "[data-testid='ai-coach-panel']", mode: "prepend"},
	{name: "exercise-title", selector: ".exercise--title", mode: "append"},
	{name: "generic-main", selector: "main", mode: "prepend"},
	{name: "floating", selector: "", mode: "float"},
}

// InsertButton consumes one attempt from the shared budget per call.
func (d *DataCamp) InsertButton(ctx context.Context) bool {
	if d.insertAttempts >= dataCampMaxInsertAttempts {
		d.logger.Warn("datacamp: insert attempts exhausted",
			"attempts", d.insertAttempts)
		return false
	}
	d.insertAttempts++

	anchors := dataCampLegacyAnchors
	if d.detectGeneration(ctx) == uiAICoach {
		anchors = dataCampAICoachAnchors
	}
	return d.tryInsert(ctx, d.CreateButton(), anchors)
}

const pauseIframeJS = `() => {
	const frame = document.querySelector("iframe[title*='video' i], [data-cy='video-iframe']");
	if (!frame || !frame.contentWindow) return 'no-frame';
	// Cross-origin: we cannot reach the media element, only post a
	// message and hope the embedded player listens.
	frame.contentWindow.postMessage({type: 'pause'}, '*');
	frame.contentWindow.postMessage('{"event":"command","func":"pauseVideo","args":""}', '*');
	return 'posted';
}`

// PauseVideo is best effort only: the player lives in a cross-origin
// iframe, so a direct pause is impossible.
func (d *DataCamp) PauseVideo(ctx context.Context) error {
	if state, err := d.pauseVideoDirect(ctx); err == nil && state == "paused" {
		return nil
	}
	if _, err := d.tab.Eval(ctx, pauseIframeJS); err != nil {
		d.logger.Debug("datacamp: iframe pause failed", "error", err)
	}
	return nil
}

func (d *DataCamp) GetVideoTitle(ctx context.Context) string {
	return d.titleFrom(ctx,
		[]string{
			".exercise--title h1",
			"[data-cy='lesson-title']",
			"h1",
		},
		[]string{"| DataCamp"})
}

func (d *DataCamp) GetVideoURL(ctx context.Context) string {
	return canonicalURL(d.tab.URL(), nil)
}

func (d *DataCamp) NotificationOptions() notify.Options {
	return notify.Options{AnchorSelector: "iframe[title*='video' i], .exercise--video"}
}

const openLegacyTranscriptJS = `() => {
	const tab = document.querySelector("[data-cy='transcript-tab']");
	if (!tab) return 'not-found';
	if (tab.getAttribute('aria-selected') === 'true') return 'open';
	tab.click();
	return 'clicked';
}`

const openCoachTranscriptJS = `() => {
	const tabs = document.querySelectorAll("[data-testid='ai-coach-panel'] [role='tab']");
	for (const t of tabs) {
		if ((t.textContent || '').toLowerCase().includes('transcript')) {
			if (t.getAttribute('aria-selected') === 'true') return 'open';
			t.click();
			return 'clicked';
		}
	}
	return 'not-found';
}`

func (d *DataCamp) openTranscript(ctx context.Context, gen uiGeneration) bool {
	js := openLegacyTranscriptJS
	if gen == uiAICoach {
		js = openCoachTranscriptJS
	}
	res, err := d.tab.Eval(ctx, js)
	if err != nil {
		d.logger.Debug("datacamp: open transcript failed", "error", err)
		return false
	}
	return res.Value.Str() != "not-found"
}

var dataCampSegmentSelectors = []string{
	"[data-cy='transcript-line']",
	".exercise--transcript .transcript-item",
	"[data-testid='ai-coach-panel'] [data-testid*='transcript']",
}

func (d *DataCamp) GetTranscript(ctx context.Context, cfg *settings.Settings) (string, error) {
	gen := d.detectGeneration(ctx)

	for attempt := 0; attempt <= openRetries; attempt++ {
		d.openTranscript(ctx, gen)
		if _, ok := d.tab.WaitFor(ctx, transcriptWait, dataCampSegmentSelectors...); ok {
			break
		}
		if attempt == openRetries {
			return "", nil
		}
	}

	return d.collectTranscript(ctx, cfg,
		".exercise--transcript",
		"[data-testid='ai-coach-panel']",
		"[data-cy='transcript-panel']")
}
