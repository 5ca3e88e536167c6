// Package copycat searches X for copied or closely paraphrased posts by
// delegating the search and the similarity judgment to a search-grounded
// model call. Results are model-generated and are not verified here.
package copycat

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tweetsmith/tweetsmith/internal/prompt"
)

const MaxSuspects = 5

type Request struct {
	OriginalTweet string   `json:"originalTweet"`
	OriginalDate  string   `json:"originalDate"`
	TweetURL      string   `json:"tweetUrl"`
	Suspects      []string `json:"suspects"`
	SearchMode    string   `json:"searchMode"` // targeted | open
}

// CleanSuspects returns the suspect handles trimmed, de-@'d and with
// empty entries dropped.
func (r *Request) CleanSuspects() []string {
	return prompt.NormalizeHandles(r.Suspects)
}

// Validate checks the request shape. Errors are client-fixable and map
// to HTTP 400.
func (r *Request) Validate() error {
	switch r.SearchMode {
	case "", "targeted":
		r.SearchMode = "targeted"
	case "open":
	default:
		return fmt.Errorf("searchMode must be %q or %q", "targeted", "open")
	}

	if r.OriginalTweet == "" && r.TweetURL == "" {
		return errors.New("either originalTweet or tweetUrl is required")
	}

	suspects := r.CleanSuspects()
	if r.SearchMode == "targeted" {
		if len(suspects) == 0 {
			return errors.New("targeted search requires at least one suspect handle")
		}
		if len(suspects) > MaxSuspects {
			return fmt.Errorf("targeted search accepts at most %d suspect handles", MaxSuspects)
		}
	}
	return nil
}

type OriginalTweetInfo struct {
	Content string `json:"content"`
	Date    string `json:"date"`
	URL     string `json:"url"`
}

type MatchedContent struct {
	Text              string `json:"text"`
	URL               string `json:"url"`
	Date              string `json:"date"`
	SimilarityPercent int    `json:"similarityPercent"`
}

type Match struct {
	SuspectHandle  string          `json:"suspectHandle"`
	IsCopy         bool            `json:"isCopy"`
	Confidence     string          `json:"confidence"` // high | medium | low
	MatchedContent *MatchedContent `json:"matchedContent,omitempty"`
	Explanation    string          `json:"explanation"`
}

type Result struct {
	SearchMode        string
	OriginalTweetInfo OriginalTweetInfo
	Matches           []Match
	Summary           string
	Annotations       []json.RawMessage
	ParseSucceeded    bool
}
