package transcript

import "testing"

var renderItems = []Item{
	{Timestamp: "0:00", Text: "intro"},
	{Timestamp: "0:05", Text: "main point"},
}

func TestRenderMarkdown(t *testing.T) {
	got := Render(renderItems, FormatMarkdown)
	want := "**[0:00]** intro\n**[0:05]** main point"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderPlain(t *testing.T) {
	got := Render(renderItems, FormatPlain)
	want := "(0:00) intro\n(0:05) main point"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderJoin(t *testing.T) {
	got := Render(renderItems, FormatJoin)
	want := "intro main point"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderUnknownFormatDefaultsToMarkdown(t *testing.T) {
	if got, want := Render(renderItems, "yaml"), Render(renderItems, FormatMarkdown); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil, FormatMarkdown); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
