package transcript

import (
	"strings"
	"testing"
)

const youtubeHTML = `
<div id="segments-container">
  <ytd-transcript-segment-renderer>
    <div class="segment-timestamp"> 0:00 </div>
    <yt-formatted-string class="segment-text">welcome to the course</yt-formatted-string>
  </ytd-transcript-segment-renderer>
  <ytd-transcript-segment-renderer>
    <div class="segment-timestamp">0:04</div>
    <yt-formatted-string class="segment-text">today we cover
      goroutines</yt-formatted-string>
  </ytd-transcript-segment-renderer>
</div>`

func TestExtractYouTube(t *testing.T) {
	items, err := Extract(youtubeHTML, YouTubePlan)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Timestamp != "0:00" || items[0].Text != "welcome to the course" {
		t.Errorf("item 0: %+v", items[0])
	}
	// Inner whitespace folds to single spaces.
	if items[1].Text != "today we cover goroutines" {
		t.Errorf("item 1 text = %q", items[1].Text)
	}
}

const udemyHTML = `
<div data-purpose="transcript-panel">
  <p data-purpose="transcript-cue"><span data-purpose="cue-text">first cue</span></p>
  <p data-purpose="transcript-cue"><span data-purpose="cue-text">second cue</span></p>
</div>`

func TestExtractUdemyNoTimestamps(t *testing.T) {
	items, err := Extract(udemyHTML, UdemyPlan)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	for _, it := range items {
		if it.Timestamp != "" {
			t.Errorf("udemy cue carried timestamp %q", it.Timestamp)
		}
	}
}

const courseraHTML = `
<div class="rc-Transcript">
  <div class="rc-Paragraph">
    <button class="timestamp">1:23</button>
    <span class="rc-Phrase">paragraph one</span>
    <span class="rc-Phrase">continues here</span>
  </div>
</div>`

func TestExtractCoursera(t *testing.T) {
	items, err := Extract(courseraHTML, CourseraPlan)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Timestamp != "1:23" {
		t.Errorf("timestamp = %q", items[0].Timestamp)
	}
	if items[0].Text != "paragraph one continues here" {
		t.Errorf("text = %q", items[0].Text)
	}
}

// Falls through the ranked rules: the first rule matches nothing, the
// second matches the redesigned markup.
func TestExtractFallbackRule(t *testing.T) {
	html := `<div>
	  <div class="transcript-segment-redesigned">
	    <span class="timestamp-label">2:00</span> spoken text here
	  </div>
	</div>`

	items, err := Extract(html, YouTubePlan)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Timestamp != "2:00" {
		t.Errorf("timestamp = %q", items[0].Timestamp)
	}
	// The timestamp node is removed before flattening the rest.
	if items[0].Text != "spoken text here" {
		t.Errorf("text = %q", items[0].Text)
	}
}

const dataCampRichHTML = `
<div data-testid="ai-coach-panel">
  <div data-testid="transcript-message">
    <p>Use a loop:</p>
    <pre><code>for i in range(3): print(i)</code></pre>
  </div>
</div>`

func TestExtractDataCampRichKeepsCode(t *testing.T) {
	items, err := Extract(dataCampRichHTML, DataCampPlan)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if !strings.Contains(items[0].Text, "for i in range(3): print(i)") {
		t.Errorf("code dropped from rich text: %q", items[0].Text)
	}
	if !strings.Contains(items[0].Text, "Use a loop:") {
		t.Errorf("prose dropped from rich text: %q", items[0].Text)
	}
}

func TestExtractNoMatches(t *testing.T) {
	items, err := Extract("<div><p>unrelated page</p></div>", YouTubePlan)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestPlanFor(t *testing.T) {
	for _, p := range []string{"youtube", "udemy", "coursera", "datacamp"} {
		plan := PlanFor(p)
		if plan.Platform != p || len(plan.Rules) == 0 {
			t.Errorf("PlanFor(%q) = %+v", p, plan)
		}
	}
	if plan := PlanFor("tiktok"); len(plan.Rules) != 0 {
		t.Errorf("unknown platform got rules: %+v", plan)
	}
}
