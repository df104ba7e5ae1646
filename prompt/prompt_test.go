package prompt

import (
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	got := Fill("T={{Title}} U={{URL}} X={{Transcript}}", Vars{
		Title:      "Intro",
		URL:        "https://example.com/v",
		Transcript: "hello",
	})
	want := "T=Intro U=https://example.com/v X=hello"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFillMissingValuesUseFallback(t *testing.T) {
	got := Fill("{{Title}} / {{Transcript}}", Vars{Transcript: "text"})
	want := Fallback + " / text"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFillUnknownTokensPassThrough(t *testing.T) {
	got := Fill("{{Title}} {{Speaker}}", Vars{Title: "x"})
	if got != "x {{Speaker}}" {
		t.Errorf("got %q", got)
	}
}

func TestFillRepeatedTokens(t *testing.T) {
	got := Fill("{{Title}} and {{Title}}", Vars{Title: "A"})
	if got != "A and A" {
		t.Errorf("got %q", got)
	}
}

func TestFindFallsBackToDefault(t *testing.T) {
	list := []Template{Default(), {ID: "x", Name: "X", Content: "c"}}

	if got := Find(list, "x"); got.ID != "x" {
		t.Errorf("Find(x) = %q", got.ID)
	}
	if got := Find(list, "missing"); got.ID != DefaultID {
		t.Errorf("Find(missing) = %q, want default", got.ID)
	}
	if got := Find(list, ""); got.ID != DefaultID {
		t.Errorf("Find(\"\") = %q, want default", got.ID)
	}
	// Even an empty library resolves to the built-in.
	if got := Find(nil, "anything"); got.ID != DefaultID {
		t.Errorf("Find on nil list = %q", got.ID)
	}
}

func TestDefaultContentUsesAllTokens(t *testing.T) {
	for _, token := range []string{"{{Title}}", "{{URL}}", "{{Transcript}}"} {
		if !strings.Contains(DefaultContent, token) {
			t.Errorf("default template missing %s", token)
		}
	}
}
