package transcript

import "strings"

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
	// FormatJoin drops timestamps entirely and joins the text into one
	// dense blob. Used only as a final prompt fallback.
	FormatJoin = "join"
)

// Render formats items for output. Unknown formats render as markdown.
// Zero items render to the empty string; the caller treats that as a
// hard stop of the activation flow.
func Render(items []Item, format string) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	switch format {
	case FormatPlain:
		for i, it := range items {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("(")
			b.WriteString(it.Timestamp)
			b.WriteString(") ")
			b.WriteString(it.Text)
		}
	case FormatJoin:
		for i, it := range items {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(it.Text)
		}
	default:
		for i, it := range items {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("**[")
			b.WriteString(it.Timestamp)
			b.WriteString("]** ")
			b.WriteString(it.Text)
		}
	}
	return b.String()
}
