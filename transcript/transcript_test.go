package transcript

import (
	"strings"
	"testing"
)

func TestNormalizeDedupe(t *testing.T) {
	raw := []Item{
		{Timestamp: "0:10", Text: "hello world"},
		{Timestamp: "0:10", Text: "hello world"},
		{Timestamp: "0:20", Text: "hello world"},
	}

	got := Normalize(raw)
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	if got[0].Text != "hello world" || got[1].Timestamp != "0:20" {
		t.Errorf("unexpected items: %+v", got)
	}
}

// The dedupe key uses only the first 32 characters of the text, so
// mirror nodes whose tails were truncated differently still collapse.
func TestNormalizeDedupePrefix(t *testing.T) {
	long := strings.Repeat("a", 32)
	raw := []Item{
		{Timestamp: "0:10", Text: long + " first tail"},
		{Timestamp: "0:10", Text: long + " second tail"},
	}

	got := Normalize(raw)
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}

	// A differing prefix must survive.
	raw = []Item{
		{Timestamp: "0:10", Text: "alpha"},
		{Timestamp: "0:10", Text: "beta"},
	}
	if got := Normalize(raw); len(got) != 2 {
		t.Fatalf("distinct texts collapsed: %+v", got)
	}
}

func TestNormalizeSynthesizesTimestamps(t *testing.T) {
	raw := []Item{
		{Text: "one"},
		{Text: "two"},
		{Text: "three"},
	}

	got := Normalize(raw)
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}
	wantStarts := []int{0, 5, 10}
	wantStamps := []string{"0:00", "0:05", "0:10"}
	for i, it := range got {
		if it.StartSeconds != wantStarts[i] || it.Timestamp != wantStamps[i] {
			t.Errorf("item %d = %q/%d, want %q/%d", i, it.Timestamp, it.StartSeconds, wantStamps[i], wantStarts[i])
		}
	}
}

func TestNormalizeSortsAndReindexes(t *testing.T) {
	raw := []Item{
		{Timestamp: "1:00", Text: "later"},
		{Timestamp: "0:10", Text: "earlier"},
		{Timestamp: "0:30", Text: "middle"},
	}

	got := Normalize(raw)
	wantOrder := []string{"earlier", "middle", "later"}
	for i, it := range got {
		if it.Text != wantOrder[i] {
			t.Errorf("position %d = %q, want %q", i, it.Text, wantOrder[i])
		}
		if it.Index != i {
			t.Errorf("item %q index = %d, want %d", it.Text, it.Index, i)
		}
	}
}

func TestNormalizeDropsEmptyText(t *testing.T) {
	raw := []Item{
		{Timestamp: "0:10", Text: ""},
		{Timestamp: "0:20", Text: "kept"},
	}
	got := Normalize(raw)
	if len(got) != 1 || got[0].Text != "kept" {
		t.Fatalf("unexpected items: %+v", got)
	}
}

// An unparseable timestamp falls back to the synthetic position rather
// than dropping the segment.
func TestNormalizeBadTimestamp(t *testing.T) {
	raw := []Item{
		{Timestamp: "0:10", Text: "good"},
		{Timestamp: "garbage", Text: "bad stamp"},
	}
	got := Normalize(raw)
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	// Index 1 in the raw slice → synthetic 1*5 = 5 seconds.
	if got[0].Text != "bad stamp" || got[0].StartSeconds != 5 {
		t.Errorf("fallback item: %+v", got[0])
	}
}
