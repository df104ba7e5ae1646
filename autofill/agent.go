// Package autofill runs on AI provider pages: it reads the pending
// hand-off persisted by the capture lifecycle, locates the provider's
// input widget among its known UI variants, injects the prompt and —
// when configured — triggers the provider's send control.
//
// It is a separate execution context from the capture lifecycle; the
// two only ever meet through the persisted pending record.
package autofill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/handoff"
	"github.com/coursehand/coursehand/notify"
	"github.com/coursehand/coursehand/store"
)

const (
	// inputWait bounds the wait for the provider's input widget;
	// provider pages render slowly on first load.
	inputWait = 15 * time.Second

	// sendWait bounds the wait for an enabled send control after
	// injection.
	sendWait = 5 * time.Second
)

// Agent fills provider pages from the pending record.
type Agent struct {
	st     *store.Store
	logger *slog.Logger
}

// NewAgent creates an auto-fill agent over the shared store.
func NewAgent(st *store.Store, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{st: st, logger: logger}
}

// Run executes the fill sequence on a provider tab. Missing elements
// degrade to a "paste manually" notification — the prompt is already
// on the clipboard — and never error out of the agent.
func (a *Agent) Run(ctx context.Context, tab *browser.Tab) error {
	pending, err := a.st.PeekPending()
	if errors.Is(err, store.ErrNoPending) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("autofill: read pending: %w", err)
	}

	cfg, err := a.st.Settings()
	if err != nil {
		return fmt.Errorf("autofill: load settings: %w", err)
	}

	// Auto-fill disabled for this context: drop the record unused.
	if !handoff.ShouldOpenTab(cfg, pending.Source) {
		a.logger.Info("autofill: disabled for source, clearing pending",
			"source", pending.Source)
		return a.st.ClearPending()
	}

	provider, ok := Detect(tab.URL())
	if !ok {
		a.logger.Debug("autofill: not a provider page", "url", tab.URL())
		return nil
	}

	loc, found := a.locateInput(ctx, tab, provider)
	if !found {
		a.logger.Warn("autofill: input not found", "provider", provider.ID)
		notify.Show(ctx, tab, notify.Info,
			"Couldn't find the chat input — paste the prompt from your clipboard", notify.Options{})
		return nil
	}

	if !a.inject(ctx, tab, loc, pending.Prompt) {
		a.logger.Warn("autofill: injection failed", "provider", provider.ID)
		notify.Show(ctx, tab, notify.Info,
			"Couldn't fill the chat input — paste the prompt from your clipboard", notify.Options{})
		return nil
	}

	// Cleared immediately after successful injection, regardless of
	// what the submit step does: at-most-one consumption, and no
	// re-fill on reload.
	if err := a.st.ClearPending(); err != nil {
		a.logger.Error("autofill: clear pending", "error", err)
	}

	a.logger.Info("autofill: prompt injected",
		"provider", provider.ID, "source", pending.Source, "chars", len(pending.Prompt))

	// Submit shares the gate checked above: a source allowed to open
	// the tab is also allowed to auto-submit.
	if !a.submit(ctx, tab, provider) {
		a.logger.Info("autofill: send control not found, leaving prompt in input",
			"provider", provider.ID)
	}
	return nil
}

// locateInput polls the provider's ranked locators until one matches or
// the bounded wait expires.
func (a *Agent) locateInput(ctx context.Context, tab *browser.Tab, p *Provider) (inputLocator, bool) {
	deadline := time.Now().Add(inputWait)
	for {
		for _, loc := range p.inputs {
			if _, ok := tab.Find(ctx, loc.selector); ok {
				return loc, true
			}
		}
		if time.Now().After(deadline) {
			return inputLocator{}, false
		}
		select {
		case <-ctx.Done():
			return inputLocator{}, false
		case <-time.After(300 * time.Millisecond):
		}
	}
}

// Plain textareas: assign through the native value setter so the host
// framework's change tracking fires, then dispatch an input event.
const injectTextareaJS = `(sel, text) => {
	const el = document.querySelector(sel);
	if (!el) return false;
	const proto = el instanceof HTMLTextAreaElement
		? window.HTMLTextAreaElement.prototype
		: window.HTMLInputElement.prototype;
	const setter = Object.getOwnPropertyDescriptor(proto, 'value').set;
	setter.call(el, text);
	el.dispatchEvent(new Event('input', {bubbles: true}));
	return true;
}`

// Rich editors: replace the node tree paragraph by paragraph, then
// dispatch an input event so the editor syncs its model.
const injectRichJS = `(sel, text) => {
	const el = document.querySelector(sel);
	if (!el) return false;
	el.focus();
	while (el.firstChild) el.removeChild(el.firstChild);
	for (const line of text.split('\n')) {
		const p = document.createElement('p');
		if (line) { p.textContent = line; } else { p.appendChild(document.createElement('br')); }
		el.appendChild(p);
	}
	el.dispatchEvent(new Event('input', {bubbles: true}));
	return true;
}`

func (a *Agent) inject(ctx context.Context, tab *browser.Tab, loc inputLocator, text string) bool {
	js := injectRichJS
	if loc.kind == editorTextarea {
		js = injectTextareaJS
	}
	res, err := tab.Eval(ctx, js, loc.selector, text)
	if err != nil {
		a.logger.Debug("autofill: inject eval failed", "selector", loc.selector, "error", err)
		return false
	}
	return res.Value.Bool()
}

// clickSendJS tries explicit selectors, then an aria-label match, then
// the icon heuristic: the only icon button inside the composer form.
const clickSendJS = `(selectors, labels) => {
	for (const sel of selectors) {
		const b = document.querySelector(sel);
		if (b && !b.disabled) { b.click(); return 'selector'; }
	}
	const buttons = document.querySelectorAll('button');
	for (const b of buttons) {
		const aria = (b.getAttribute('aria-label') || '').toLowerCase();
		if (!b.disabled && labels.some(l => aria.includes(l))) { b.click(); return 'aria'; }
	}
	for (const b of buttons) {
		if (!b.disabled && b.querySelector('svg') && b.closest('form')) {
			b.click();
			return 'icon';
		}
	}
	return '';
}`

// submit locates and clicks the provider's send control, polling
// briefly: many providers keep the control disabled until their model
// has registered the injected text.
func (a *Agent) submit(ctx context.Context, tab *browser.Tab, p *Provider) bool {
	deadline := time.Now().Add(sendWait)
	for {
		res, err := tab.Eval(ctx, clickSendJS, p.sendSelectors, sendAriaLabels)
		if err == nil && res.Value.Str() != "" {
			a.logger.Debug("autofill: send clicked",
				"provider", p.ID, "via", res.Value.Str())
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(500 * time.Millisecond):
		}
	}
}
