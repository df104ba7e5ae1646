// Package clip writes the generated prompt to the clipboard. The OS
// clipboard is primary; when that fails (headless session, missing
// xclip) it falls back to the page's own navigator.clipboard. A failed
// copy is reported but never aborts the activation flow.
package clip

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/coursehand/coursehand/browser"
)

const pageCopyJS = `(text) => navigator.clipboard.writeText(text).then(() => true, () => false)`

// Copy writes text to the OS clipboard, falling back to the tab's
// in-page clipboard API.
func Copy(ctx context.Context, tab *browser.Tab, text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}

	if tab != nil {
		res, err := tab.Eval(ctx, pageCopyJS, text)
		if err == nil && res.Value.Bool() {
			return nil
		}
	}
	return fmt.Errorf("clip: clipboard write failed")
}
