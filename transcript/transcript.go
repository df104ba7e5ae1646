// Package transcript turns scraped transcript segments into an ordered,
// deduplicated sequence of items and renders them in the configured
// output format.
//
// Segment extraction is pure over captured HTML (see extract.go), so
// everything in this package is testable without a browser. Segments
// lacking a real timestamp get a synthesized one at a fixed 5-second
// spacing; this keeps ordering stable and monotonic but is an estimate,
// not an authoritative offset.
package transcript

import "sort"

// Item is one scraped transcript unit.
type Item struct {
	Index        int    `json:"index"`
	Timestamp    string `json:"timestamp"`
	StartSeconds int    `json:"startSeconds"`
	Text         string `json:"text"`
}

const (
	// dedupePrefixLen is how many leading text characters participate in
	// the deduplication key. Host pages sometimes render an off-screen
	// mirror of the segment list; keying on a prefix collapses those
	// duplicates without relying on node identity.
	dedupePrefixLen = 32

	// syntheticInterval is the estimated spacing, in seconds, between
	// segments that carry no timestamp of their own.
	syntheticInterval = 5
)

// Normalize deduplicates raw items by (timestamp, text prefix),
// synthesizes missing timestamps and sorts ascending by start offset.
// Item indices are rewritten to match the final order.
func Normalize(raw []Item) []Item {
	seen := make(map[[2]string]bool, len(raw))
	items := make([]Item, 0, len(raw))

	for i, it := range raw {
		if it.Text == "" {
			continue
		}
		if it.Timestamp == "" {
			it.StartSeconds = i * syntheticInterval
			it.Timestamp = FormatTimestamp(it.StartSeconds)
		} else if secs, ok := ParseTimestamp(it.Timestamp); ok {
			it.StartSeconds = secs
		} else {
			it.StartSeconds = i * syntheticInterval
		}

		key := [2]string{it.Timestamp, prefix(it.Text, dedupePrefixLen)}
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, it)
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].StartSeconds < items[b].StartSeconds
	})
	for i := range items {
		items[i].Index = i
	}
	return items
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
