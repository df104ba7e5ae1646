// Package notify renders transient toasts inside the host page, near
// the video player when the adapter supplies an anchor. Failures here
// are swallowed: a toast that cannot render must never break the flow
// it is reporting on.
package notify

import (
	"context"
	"time"

	"github.com/coursehand/coursehand/browser"
)

// Kind selects the toast accent.
type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Error   Kind = "error"
)

// Options positions and styles a toast.
type Options struct {
	// AnchorSelector places the toast near a host element (typically
	// the player). Empty anchors to the viewport corner.
	AnchorSelector string
	// Theme is "dark", "light" or "" (follow the page).
	Theme string
}

// visibleFor is how long a toast stays on screen.
const visibleFor = 4 * time.Second

const toastJS = `(msg, kind, anchorSel, theme, ms) => {
	const old = document.getElementById('coursehand-toast');
	if (old) old.remove();

	const el = document.createElement('div');
	el.id = 'coursehand-toast';
	el.textContent = msg;

	const dark = theme === 'dark' ||
		(theme !== 'light' && matchMedia('(prefers-color-scheme: dark)').matches);
	const accent = kind === 'error' ? '#d93025' : kind === 'success' ? '#188038' : '#1a73e8';
	el.style.cssText =
		'position:fixed;z-index:2147483647;padding:10px 16px;border-radius:8px;' +
		'font:13px/1.4 system-ui,sans-serif;box-shadow:0 2px 10px rgba(0,0,0,.3);' +
		'border-left:4px solid ' + accent + ';' +
		(dark ? 'background:#202124;color:#e8eaed;' : 'background:#fff;color:#202124;');

	let placed = false;
	if (anchorSel) {
		const anchor = document.querySelector(anchorSel);
		if (anchor) {
			const r = anchor.getBoundingClientRect();
			el.style.top = Math.max(8, r.top + 12) + 'px';
			el.style.left = Math.max(8, r.left + 12) + 'px';
			placed = true;
		}
	}
	if (!placed) {
		el.style.bottom = '24px';
		el.style.right = '24px';
	}

	document.body.appendChild(el);
	setTimeout(() => el.remove(), ms);
}`

// Show renders a toast on the tab. Best effort.
func Show(ctx context.Context, tab *browser.Tab, kind Kind, message string, opts Options) {
	_, _ = tab.Eval(ctx, toastJS,
		message, string(kind), opts.AnchorSelector, opts.Theme, visibleFor.Milliseconds())
}
