package tweet

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/tweetsmith/tweetsmith/internal/prompt"
)

// Result is the shaped model output handed back to the handler.
type Result struct {
	Kind           prompt.Kind
	Tweets         []string
	Raw            any
	ParseSucceeded bool
}

func (r *Result) IsThread() bool { return r.Kind == prompt.KindThread }

// CharacterCount reports the rune length of the improved content: the
// single tweet's length, or the total across thread entries.
func (r *Result) CharacterCount() int {
	total := 0
	for _, t := range r.Tweets {
		total += utf8.RuneCountInString(t)
	}
	return total
}

type modelEntry struct {
	Hook    string `json:"hook"`
	Body    string `json:"body"`
	Closing string `json:"closing"`
}

type modelPayload struct {
	Type    string       `json:"type"`
	Hook    string       `json:"hook"`
	Body    string       `json:"body"`
	Closing string       `json:"closing"`
	Thread  []modelEntry `json:"thread"`
}

// StripFence removes a leading/trailing markdown code fence by literal
// prefix/suffix trimming, matching how the models wrap JSON output.
func StripFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	lower := strings.ToLower(cleaned)
	switch {
	case strings.HasPrefix(lower, "```json"):
		cleaned = cleaned[len("```json"):]
	case strings.HasPrefix(cleaned, "```"):
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// Normalize strips any code fence from the raw model text and parses it
// into an ordered tweet sequence. A parse failure is not an error: the
// cleaned raw text comes back as a single tweet with ParseSucceeded
// false, since a best-effort textual result is still useful.
func Normalize(raw string, fallbackKind prompt.Kind) *Result {
	cleaned := StripFence(raw)

	var payload modelPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return rawFallback(cleaned, fallbackKind)
	}

	switch payload.Type {
	case "single":
		return &Result{
			Kind:           prompt.KindSingle,
			Tweets:         []string{joinParts(payload.Hook, payload.Body, payload.Closing)},
			Raw:            payload,
			ParseSucceeded: true,
		}
	case "thread":
		tweets := make([]string, 0, len(payload.Thread))
		for _, e := range payload.Thread {
			tweets = append(tweets, joinParts(e.Hook, e.Body, e.Closing))
		}
		return &Result{
			Kind:           prompt.KindThread,
			Tweets:         tweets,
			Raw:            payload,
			ParseSucceeded: true,
		}
	default:
		return rawFallback(cleaned, fallbackKind)
	}
}

func rawFallback(cleaned string, kind prompt.Kind) *Result {
	return &Result{
		Kind:           kind,
		Tweets:         []string{cleaned},
		Raw:            cleaned,
		ParseSucceeded: false,
	}
}

func joinParts(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}
