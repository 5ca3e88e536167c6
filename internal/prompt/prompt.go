// Package prompt assembles the instruction text sent to the model
// backends. Builders are pure: fixed templates plus the caller's fields,
// no other transformation of user text.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Kind string

const (
	KindSingle Kind = "single"
	KindThread Kind = "thread"
)

// Texts longer than this are treated as a thread when the caller asked
// for auto detection.
const autoThreadThreshold = 500

const singleTemplate = `You are an expert tweet editor. Rewrite the tweet below so it lands harder while preserving 90-99% of the original wording. Tighten the hook, keep the author's voice, and do not invent claims.

Respond with ONLY this JSON, no other text:
{"type":"single","hook":"...","body":"...","closing":"..."}

Keep the combined hook, body and closing under 280 characters.`

const threadTemplate = `You are an expert tweet editor. Rework the text below into a tightly paced thread while preserving 90-99% of the original wording. Each entry must stand on its own, the first entry must hook, and the last must close. Do not invent claims.

Respond with ONLY this JSON, no other text:
{"type":"thread","thread":[{"hook":"...","body":"...","closing":"..."}]}

Keep every entry under 280 characters.`

const copycatTargetedTemplate = `You investigate copied posts on X (Twitter). Search each suspect account listed below for posts that copy or closely paraphrase the original tweet. A copy keeps the core phrasing or structure; independent takes on the same topic are not copies.

Respond with ONLY this JSON, no other text:
{"originalTweetInfo":{"content":"...","date":"...","url":"..."},"results":[{"suspectHandle":"...","isCopy":true,"confidence":"high|medium|low","matchedContent":{"text":"...","url":"...","date":"...","similarityPercent":0},"explanation":"..."}],"summary":"..."}

Include one results entry per suspect, in the order given. Omit matchedContent when no copy was found.`

const copycatOpenTemplate = `You investigate copied posts on X (Twitter). Search broadly for accounts that copied or closely paraphrased the original tweet described below. A copy keeps the core phrasing or structure; independent takes on the same topic are not copies.

Respond with ONLY this JSON, no other text:
{"originalTweetInfo":{"content":"...","date":"...","url":"..."},"results":[{"suspectHandle":"...","isCopy":true,"confidence":"high|medium|low","matchedContent":{"text":"...","url":"...","date":"...","similarityPercent":0},"explanation":"..."}],"summary":"..."}

Only report accounts you actually found matching content for.`

// DetectKind resolves the requested mode. An explicit single/thread
// choice always wins; auto (or empty) falls back to length detection.
func DetectKind(text, mode string) Kind {
	switch mode {
	case "single":
		return KindSingle
	case "thread":
		return KindThread
	}
	if utf8.RuneCountInString(text) > autoThreadThreshold {
		return KindThread
	}
	return KindSingle
}

// BuildImprove assembles the tweet-improvement prompt.
func BuildImprove(kind Kind, text string, addEmojis bool) string {
	var sb strings.Builder
	if kind == KindThread {
		sb.WriteString(threadTemplate)
	} else {
		sb.WriteString(singleTemplate)
	}
	sb.WriteString("\n\n")
	if addEmojis {
		sb.WriteString("Emoji: add 1-2 fitting emojis per tweet.")
	} else {
		sb.WriteString("Emoji: add none.")
	}
	sb.WriteString("\n\nOriginal text:\n")
	sb.WriteString(text)
	return sb.String()
}

// BuildCopycat assembles the copy-search prompt. Suspects are expected
// to already be normalized via NormalizeHandles.
func BuildCopycat(searchMode, originalTweet, originalDate, tweetURL string, suspects []string) string {
	var sb strings.Builder
	if searchMode == "open" {
		sb.WriteString(copycatOpenTemplate)
	} else {
		sb.WriteString(copycatTargetedTemplate)
	}
	sb.WriteString("\n")
	if tweetURL != "" {
		sb.WriteString("\nOriginal tweet URL: " + tweetURL)
	}
	if originalTweet != "" {
		sb.WriteString("\nOriginal tweet text: " + originalTweet)
	}
	if originalDate != "" {
		sb.WriteString("\nOriginal tweet date: " + originalDate)
	}
	if searchMode != "open" {
		sb.WriteString("\n\nSuspect accounts:")
		for i, h := range suspects {
			sb.WriteString(fmt.Sprintf("\n%d. @%s", i+1, h))
		}
	}
	return sb.String()
}

// NormalizeHandles trims whitespace, strips a leading @ and drops empty
// entries, preserving order.
func NormalizeHandles(suspects []string) []string {
	out := make([]string, 0, len(suspects))
	for _, s := range suspects {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "@")
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
