package transcript

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// SegmentRule is one node-selection strategy. Rules are tried in rank
// order; the first rule that matches any segment wins, so a plan
// degrades progressively as the host site redesigns its markup.
type SegmentRule struct {
	// Name identifies the rule in logs.
	Name string
	// Segment selects one transcript segment node.
	Segment string
	// Timestamp selects the display timestamp within a segment. Empty
	// means the platform renders no timestamps and they are synthesized.
	Timestamp string
	// Text selects the spoken text within a segment. Empty means the
	// whole segment text minus the timestamp.
	Text string
	// Rich marks segments whose text carries meaningful markup (code
	// blocks and the like); their HTML is sanitized and converted to
	// markdown instead of flattened to plain text.
	Rich bool
}

// Plan is the ranked selector list for one platform.
type Plan struct {
	Platform string
	Rules    []SegmentRule
}

var sanitizer = bluemonday.UGCPolicy()

var richConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// Extract parses captured container HTML and returns raw items in
// document order. Zero matches across all rules yields an empty slice,
// never an error; errors are reserved for unparseable input.
func Extract(html string, plan Plan) ([]Item, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("transcript: parse %s html: %w", plan.Platform, err)
	}

	for _, rule := range plan.Rules {
		sel := doc.Find(rule.Segment)
		if sel.Length() == 0 {
			continue
		}

		items := make([]Item, 0, sel.Length())
		sel.Each(func(i int, seg *goquery.Selection) {
			it := Item{Index: i}

			if rule.Timestamp != "" {
				it.Timestamp = collapse(seg.Find(rule.Timestamp).First().Text())
			}

			switch {
			case rule.Rich:
				it.Text = richText(seg, rule)
			case rule.Text != "":
				it.Text = collapse(seg.Find(rule.Text).Text())
			default:
				it.Text = textWithoutTimestamp(seg, rule.Timestamp)
			}

			if it.Text != "" {
				items = append(items, it)
			}
		})

		if len(items) > 0 {
			return items, nil
		}
	}

	return nil, nil
}

// richText sanitizes the segment's HTML and converts it to markdown so
// code blocks and emphasis survive into the prompt. Falls back to the
// flattened text when conversion yields nothing.
func richText(seg *goquery.Selection, rule SegmentRule) string {
	target := seg
	if rule.Text != "" {
		target = seg.Find(rule.Text)
	}
	raw, err := goquery.OuterHtml(target)
	if err != nil || raw == "" {
		return collapse(target.Text())
	}

	md, err := richConverter.ConvertString(sanitizer.Sanitize(raw))
	if err != nil || strings.TrimSpace(md) == "" {
		return collapse(target.Text())
	}
	return strings.TrimSpace(md)
}

func textWithoutTimestamp(seg *goquery.Selection, tsSelector string) string {
	if tsSelector == "" {
		return collapse(seg.Text())
	}
	clone := seg.Clone()
	clone.Find(tsSelector).Remove()
	return collapse(clone.Text())
}

// collapse trims and folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
