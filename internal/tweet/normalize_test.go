package tweet

import (
	"testing"

	"github.com/tweetsmith/tweetsmith/internal/prompt"
)

func TestStripFence(t *testing.T) {
	body := `{"type":"single","hook":"h","body":"b","closing":"c"}`

	cases := []struct {
		name string
		in   string
	}{
		{"bare", body},
		{"json fence", "```json\n" + body + "\n```"},
		{"plain fence", "```\n" + body + "\n```"},
		{"uppercase fence", "```JSON\n" + body + "\n```"},
		{"no closing fence", "```json\n" + body},
		{"surrounding whitespace", "  \n```json\n" + body + "\n```  \n"},
	}
	for _, tc := range cases {
		if got := StripFence(tc.in); got != body {
			t.Fatalf("%s: got %q, want %q", tc.name, got, body)
		}
	}
}

func TestNormalize_Single(t *testing.T) {
	raw := "```json\n{\"type\":\"single\",\"hook\":\"Hook line\",\"body\":\"Body line\",\"closing\":\"Closing line\"}\n```"

	res := Normalize(raw, prompt.KindSingle)
	if !res.ParseSucceeded {
		t.Fatal("expected parse to succeed")
	}
	if res.Kind != prompt.KindSingle || res.IsThread() {
		t.Fatalf("unexpected kind %q", res.Kind)
	}
	if len(res.Tweets) != 1 {
		t.Fatalf("expected 1 tweet, got %d", len(res.Tweets))
	}
	want := "Hook line\n\nBody line\n\nClosing line"
	if res.Tweets[0] != want {
		t.Fatalf("got %q, want %q", res.Tweets[0], want)
	}
}

func TestNormalize_SingleSkipsEmptyParts(t *testing.T) {
	raw := `{"type":"single","hook":"Hook","body":"","closing":"Close"}`

	res := Normalize(raw, prompt.KindSingle)
	if res.Tweets[0] != "Hook\n\nClose" {
		t.Fatalf("empty body should be skipped, got %q", res.Tweets[0])
	}
}

func TestNormalize_Thread(t *testing.T) {
	raw := `{"type":"thread","thread":[` +
		`{"hook":"One","body":"first","closing":""},` +
		`{"hook":"Two","body":"second","closing":"done"}]}`

	res := Normalize(raw, prompt.KindSingle)
	if !res.ParseSucceeded || !res.IsThread() {
		t.Fatalf("expected parsed thread, got kind=%q parsed=%v", res.Kind, res.ParseSucceeded)
	}
	if len(res.Tweets) != 2 {
		t.Fatalf("expected 2 tweets, got %d", len(res.Tweets))
	}
	if res.Tweets[0] != "One\n\nfirst" || res.Tweets[1] != "Two\n\nsecond\n\ndone" {
		t.Fatalf("unexpected tweets: %q", res.Tweets)
	}
}

func TestNormalize_InvalidJSONFallsBackToRaw(t *testing.T) {
	raw := "```\nSorry, here is a better tweet: just ship it.\n```"

	res := Normalize(raw, prompt.KindSingle)
	if res.ParseSucceeded {
		t.Fatal("expected parse failure flag")
	}
	if len(res.Tweets) != 1 || res.Tweets[0] != "Sorry, here is a better tweet: just ship it." {
		t.Fatalf("expected cleaned raw text as single tweet, got %q", res.Tweets)
	}
	if res.Kind != prompt.KindSingle {
		t.Fatalf("fallback kind should be the requested one, got %q", res.Kind)
	}
}

func TestNormalize_UnknownTypeFallsBackToRaw(t *testing.T) {
	raw := `{"type":"poem","text":"roses are red"}`

	res := Normalize(raw, prompt.KindThread)
	if res.ParseSucceeded {
		t.Fatal("unknown discriminator must not count as parsed")
	}
	if res.Kind != prompt.KindThread {
		t.Fatalf("fallback kind should be the requested one, got %q", res.Kind)
	}
}

func TestCharacterCount(t *testing.T) {
	res := &Result{Kind: prompt.KindThread, Tweets: []string{"abc", "dé"}}
	if got := res.CharacterCount(); got != 5 {
		t.Fatalf("expected 5 runes, got %d", got)
	}
}
