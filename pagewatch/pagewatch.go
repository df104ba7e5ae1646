// Package pagewatch watches a live tab for the two events the capture
// lifecycle must react to: single-page-app navigation (the URL changes
// without a load) and the host page re-rendering away our injected
// button. Signals come from injected JS through a CDP binding; removal
// signals are debounced so a burst of host mutations triggers one
// re-insertion check, not dozens.
package pagewatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/coursehand/coursehand/browser"
)

// EventKind discriminates watch events.
type EventKind string

const (
	// EventNavigated fires when the page URL changed without a full load.
	EventNavigated EventKind = "navigated"
	// EventMarkerRemoved fires (debounced) when the watched marker node
	// left the DOM.
	EventMarkerRemoved EventKind = "marker_removed"
)

// Event is one watch notification.
type Event struct {
	Kind EventKind
	URL  string
}

const (
	bindingName = "__coursehand_watch"

	// removalDebounce coalesces marker-removal signals. Host re-renders
	// arrive in bursts; one re-insertion check per burst is enough.
	removalDebounce = 400 * time.Millisecond

	// navPollInterval backs up the history hooks for hosts that replace
	// location through means the hooks cannot see.
	navPollInterval = 1 * time.Second
)

// watchJS hooks the history API and observes the marker node. Signals
// are posted to the Go side through the CDP binding.
const watchJS = `(marker) => {
	if (window.__coursehand_watching) return;
	window.__coursehand_watching = true;

	const signal = (kind) => {
		try {
			window.` + bindingName + `(JSON.stringify({kind: kind, url: location.href}));
		} catch (e) { /* binding gone; page is navigating away */ }
	};

	const origPush = history.pushState;
	history.pushState = function () {
		origPush.apply(this, arguments);
		signal('nav');
	};
	const origReplace = history.replaceState;
	history.replaceState = function () {
		origReplace.apply(this, arguments);
		signal('nav');
	};
	window.addEventListener('popstate', () => signal('nav'));

	const observer = new MutationObserver(() => {
		if (!document.getElementById(marker)) {
			signal('removed');
		}
	});
	observer.observe(document.documentElement, {childList: true, subtree: true});
}`

// Watch observes one tab. Create with Start, consume Events, Stop when
// the tab goes away.
type Watch struct {
	tab    *browser.Tab
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	rawCh  chan Event
	events chan Event

	lastURL string
}

// Start injects the watch JS and begins delivering events. markerID is
// the DOM id of the injected button whose removal we track.
func Start(ctx context.Context, tab *browser.Tab, markerID string, logger *slog.Logger) (*Watch, error) {
	if logger == nil {
		logger = slog.Default()
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &Watch{
		tab:     tab,
		logger:  logger,
		ctx:     wctx,
		cancel:  cancel,
		rawCh:   make(chan Event, 64),
		events:  make(chan Event, 16),
		lastURL: tab.PageURL,
	}

	err := proto.RuntimeAddBinding{Name: bindingName}.Call(tab.Page)
	if err != nil {
		logger.Warn("pagewatch: add binding failed (may already exist)", "error", err)
	}
	go w.listenBinding()

	if _, err := tab.Eval(wctx, watchJS, markerID); err != nil {
		cancel()
		return nil, err
	}

	go w.loop()
	return w, nil
}

// Events delivers navigation and (debounced) removal events.
func (w *Watch) Events() <-chan Event {
	return w.events
}

// Stop ends the watch.
func (w *Watch) Stop() {
	w.cancel()
}

// Reinject re-installs the watch JS after the host replaced the
// document (hard navigation within the same tab).
func (w *Watch) Reinject(markerID string) error {
	_, err := w.tab.Eval(w.ctx, watchJS, markerID)
	return err
}

func (w *Watch) listenBinding() {
	w.tab.Page.Context(w.ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != bindingName {
			return
		}
		var sig struct {
			Kind string `json:"kind"`
			URL  string `json:"url"`
		}
		if err := json.Unmarshal([]byte(e.Payload), &sig); err != nil {
			w.logger.Warn("pagewatch: parse signal", "error", err)
			return
		}
		kind := EventNavigated
		if sig.Kind == "removed" {
			kind = EventMarkerRemoved
		}
		select {
		case w.rawCh <- Event{Kind: kind, URL: sig.URL}:
		default:
			// Raw buffer full; the poll loop will catch up.
		}
	})()
}

// loop debounces removal signals and polls the URL as a fallback
// navigation detector.
func (w *Watch) loop() {
	var removalTimer *time.Timer
	var removalC <-chan time.Time

	poll := time.NewTicker(navPollInterval)
	defer poll.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case ev := <-w.rawCh:
			switch ev.Kind {
			case EventNavigated:
				if ev.URL != w.lastURL {
					w.lastURL = ev.URL
					w.emit(ev)
				}
			case EventMarkerRemoved:
				if removalTimer == nil {
					removalTimer = time.NewTimer(removalDebounce)
				} else {
					removalTimer.Reset(removalDebounce)
				}
				removalC = removalTimer.C
			}

		case <-removalC:
			removalC = nil
			w.emit(Event{Kind: EventMarkerRemoved, URL: w.lastURL})

		case <-poll.C:
			if url := w.tab.URL(); url != w.lastURL {
				w.lastURL = url
				w.emit(Event{Kind: EventNavigated, URL: url})
			}
		}
	}
}

func (w *Watch) emit(ev Event) {
	select {
	case w.events <- ev:
	case <-w.ctx.Done():
	}
}
