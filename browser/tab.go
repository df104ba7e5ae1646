package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Tab wraps a Rod page with the helpers the adapters and the auto-fill
// agent share: bounded element waits, eval, simulated clicks.
type Tab struct {
	Page    *rod.Page
	PageURL string
}

// OpenTab creates a new stealth tab and navigates to the URL.
func OpenTab(ctx context.Context, mgr *Manager, pageURL string) (*Tab, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, defaultNavTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		mgr.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	return &Tab{Page: page, PageURL: pageURL}, nil
}

// Attach wraps an already-open page without navigating it.
func Attach(page *rod.Page) (*Tab, error) {
	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("browser: page info: %w", err)
	}
	return &Tab{Page: page, PageURL: info.URL}, nil
}

// URL re-reads the page's current URL (SPA navigations change it
// without a load event).
func (t *Tab) URL() string {
	info, err := t.Page.Info()
	if err != nil {
		return t.PageURL
	}
	t.PageURL = info.URL
	return info.URL
}

// Eval runs a JS function string on the page.
func (t *Tab) Eval(ctx context.Context, js string, args ...interface{}) (*proto.RuntimeRemoteObject, error) {
	res, err := t.Page.Context(ctx).Eval(js, args...)
	if err != nil {
		return nil, fmt.Errorf("browser: eval: %w", err)
	}
	return res, nil
}

// elementPollInterval is the spacing of bounded element polls.
const elementPollInterval = 250 * time.Millisecond

// WaitFor polls for the first selector in ranked order until one
// matches or the timeout elapses. Resolves to (nil, false) on timeout
// rather than hanging — absence is an expected outcome, not an error.
func (t *Tab) WaitFor(ctx context.Context, timeout time.Duration, selectors ...string) (*rod.Element, bool) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(elementPollInterval)
	defer ticker.Stop()

	for {
		for _, sel := range selectors {
			has, el, err := t.Page.Context(ctx).Has(sel)
			if err == nil && has {
				return el, true
			}
		}

		if time.Now().After(deadline) {
			return nil, false
		}
		select {
		case <-ctx.Done():
			return nil, false
		case <-ticker.C:
		}
	}
}

// Find returns the first element matching any of the ranked selectors,
// without waiting.
func (t *Tab) Find(ctx context.Context, selectors ...string) (*rod.Element, bool) {
	for _, sel := range selectors {
		has, el, err := t.Page.Context(ctx).Has(sel)
		if err == nil && has {
			return el, true
		}
	}
	return nil, false
}

// ClickElement simulates a user click through the page's own event
// path; host frameworks that ignore programmatic .click() still see
// trusted-looking pointer events from CDP.
func (t *Tab) ClickElement(ctx context.Context, el *rod.Element) error {
	if err := el.Context(ctx).ScrollIntoView(); err != nil {
		// Off-screen elements can often still be clicked via JS.
		if _, evalErr := el.Context(ctx).Eval(`() => this.click()`); evalErr == nil {
			return nil
		}
		return fmt.Errorf("browser: scroll into view: %w", err)
	}
	if err := el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		if _, evalErr := el.Context(ctx).Eval(`() => this.click()`); evalErr == nil {
			return nil
		}
		return fmt.Errorf("browser: click: %w", err)
	}
	return nil
}

// OuterHTML captures an element's outer HTML for out-of-page parsing.
func (t *Tab) OuterHTML(ctx context.Context, el *rod.Element) (string, error) {
	html, err := el.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("browser: outer html: %w", err)
	}
	return html, nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.Page != nil {
		return t.Page.Close()
	}
	return nil
}
