package platform

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/settings"
	"github.com/coursehand/coursehand/transcript"
)

// activateBinding is the CDP binding the injected button click calls.
const activateBinding = "__coursehand_activate"

// evaluator is the script-evaluation surface button insertion runs
// against. *browser.Tab satisfies it; tests substitute a scripted one.
type evaluator interface {
	Eval(ctx context.Context, js string, args ...interface{}) (*proto.RuntimeRemoteObject, error)
}

// base carries the state and helpers every adapter shares.
type base struct {
	id     string
	tab    *browser.Tab
	logger *slog.Logger

	// eval overrides the tab for script evaluation in tests.
	eval evaluator
}

func (b *base) evalOn() evaluator {
	if b.eval != nil {
		return b.eval
	}
	return b.tab
}

func (b *base) ID() string { return b.id }

// anchorStrategy is one button-placement attempt: a CSS selector for
// the anchor element and how the button relates to it. Strategies run
// most specific first; "float" ignores the anchor and pins the button
// to the viewport as a last resort.
type anchorStrategy struct {
	name     string
	selector string
	mode     string // before | after | prepend | append | float
}

const insertJS = `(html, sel, mode, btnId) => {
	if (document.getElementById(btnId)) return 'exists';

	let anchor = null;
	if (mode !== 'float') {
		anchor = document.querySelector(sel);
		if (!anchor) return 'no-anchor';
	}

	const tpl = document.createElement('template');
	tpl.innerHTML = html.trim();
	const btn = tpl.content.firstElementChild;
	if (!btn) return 'bad-html';

	switch (mode) {
	case 'before':
		anchor.parentNode.insertBefore(btn, anchor);
		break;
	case 'after':
		anchor.parentNode.insertBefore(btn, anchor.nextSibling);
		break;
	case 'prepend':
		anchor.prepend(btn);
		break;
	case 'float':
		btn.style.position = 'fixed';
		btn.style.bottom = '24px';
		btn.style.right = '24px';
		btn.style.zIndex = '2147483646';
		document.body.appendChild(btn);
		break;
	default:
		anchor.appendChild(btn);
	}

	btn.addEventListener('click', (e) => {
		e.preventDefault();
		e.stopPropagation();
		window.` + activateBinding + `(location.href);
	});
	return 'inserted';
}`

// tryInsert runs the strategies once, in order. Reports whether the
// button is present afterwards.
func (b *base) tryInsert(ctx context.Context, html string, strategies []anchorStrategy) bool {
	for _, s := range strategies {
		res, err := b.evalOn().Eval(ctx, insertJS, html, s.selector, s.mode, ButtonID)
		if err != nil {
			b.logger.Debug("platform: insert eval failed",
				"platform", b.id, "strategy", s.name, "error", err)
			continue
		}
		switch res.Value.Str() {
		case "inserted":
			b.logger.Info("platform: button inserted", "platform", b.id, "strategy", s.name)
			return true
		case "exists":
			return true
		}
	}
	return false
}

const defaultButtonHTML = `<button id="` + ButtonID + `" type="button" title="Copy transcript for AI" style="display:inline-flex;align-items:center;gap:6px;margin:0 8px;padding:6px 14px;border:none;border-radius:18px;background:#1a73e8;color:#fff;font:500 13px system-ui,sans-serif;cursor:pointer;"><span data-role="label">Transcript &rarr; AI</span></button>`

// CreateButton returns the default button markup. Adapters override
// only when the host chrome demands different styling.
func (b *base) CreateButton() string { return defaultButtonHTML }

const busyJS = `(btnId, busy) => {
	const btn = document.getElementById(btnId);
	if (!btn) return;
	const label = btn.querySelector('[data-role="label"]');
	btn.disabled = busy;
	btn.style.opacity = busy ? '0.7' : '1';
	if (label) label.textContent = busy ? 'Working…' : 'Transcript → AI';
}`

// setBusy toggles the button's in-progress look.
func (b *base) setBusy(ctx context.Context, busy bool) {
	_, _ = b.tab.Eval(ctx, busyJS, ButtonID, busy)
}

const pauseJS = `() => {
	const v = document.querySelector('video');
	if (!v) return 'none';
	if (v.paused) return 'paused';
	v.pause();
	return v.paused ? 'paused' : 'ambiguous';
}`

// pauseVideoDirect pauses the first media element on the page. The
// returned state lets adapters fall back to clicking the host's own
// control when direct pause was ambiguous.
func (b *base) pauseVideoDirect(ctx context.Context) (string, error) {
	res, err := b.tab.Eval(ctx, pauseJS)
	if err != nil {
		return "", fmt.Errorf("platform: pause video: %w", err)
	}
	return res.Value.Str(), nil
}

const textOfJS = `(sel) => {
	const el = document.querySelector(sel);
	return el ? el.textContent.trim() : '';
}`

// titleFrom tries the ordered selectors, then falls back to the page
// title with the given suffixes stripped.
func (b *base) titleFrom(ctx context.Context, selectors []string, stripSuffixes []string) string {
	for _, sel := range selectors {
		res, err := b.tab.Eval(ctx, textOfJS, sel)
		if err == nil {
			if t := strings.TrimSpace(res.Value.Str()); t != "" {
				return t
			}
		}
	}

	res, err := b.tab.Eval(ctx, `() => document.title`)
	if err != nil {
		return ""
	}
	return cleanPageTitle(res.Value.Str(), stripSuffixes)
}

// cleanPageTitle strips host-site suffixes like " - YouTube" from a
// document title. Pure.
func cleanPageTitle(title string, suffixes []string) string {
	title = strings.TrimSpace(title)
	for _, suf := range suffixes {
		if strings.HasSuffix(title, suf) {
			title = strings.TrimSpace(strings.TrimSuffix(title, suf))
		}
	}
	return title
}

// canonicalURL strips volatile query parameters, keeping only those in
// keep. With an empty keep list the whole query (and fragment) drops.
// Pure.
func canonicalURL(raw string, keep []string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""

	if len(keep) == 0 {
		u.RawQuery = ""
		return u.String()
	}

	q := u.Query()
	kept := url.Values{}
	for _, k := range keep {
		if v := q.Get(k); v != "" {
			kept.Set(k, v)
		}
	}
	u.RawQuery = kept.Encode()
	return u.String()
}

// transcriptWait bounds how long an adapter polls for transcript
// segments after opening the UI; openRetries is how many times the
// open step is repeated when segments never appear.
const (
	transcriptWait = 5 * time.Second
	openRetries    = 1
)

// collectTranscript captures the first matching container's HTML and
// runs the pure extraction pipeline over it.
func (b *base) collectTranscript(ctx context.Context, cfg *settings.Settings, containerSelectors ...string) (string, error) {
	el, ok := b.tab.WaitFor(ctx, transcriptWait, containerSelectors...)
	if !ok {
		return "", nil
	}

	html, err := b.tab.OuterHTML(ctx, el)
	if err != nil {
		return "", err
	}

	items, err := transcript.Extract(html, transcript.PlanFor(b.id))
	if err != nil {
		return "", err
	}
	items = transcript.Normalize(items)

	rendered := transcript.Render(items, cfg.CopyFormat)
	if rendered == "" && len(items) > 0 {
		rendered = transcript.Render(items, transcript.FormatJoin)
	}
	return rendered, nil
}
