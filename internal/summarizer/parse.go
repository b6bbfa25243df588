package summarizer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseResult normalizes the raw JSON text produced by a provider into a
// Result. Missing keys get defaults; an invalid sentiment becomes
// "neutral"; the score is clamped to [-1, 1]. A JSON parse failure is
// terminal for the call. Keyword, pro, and con lists pass through as-is:
// the 10-item keyword cap is a request to the model, not an invariant
// enforced here. AIModel is left for the caller to stamp.
func parseResult(raw string) (*Result, error) {
	var payload struct {
		Summary        string   `json:"summary"`
		Sentiment      string   `json:"sentiment"`
		SentimentScore any      `json:"sentiment_score"`
		Keywords       []string `json:"keywords"`
		Pros           []string `json:"pros"`
		Cons           []string `json:"cons"`
	}

	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	sentiment := payload.Sentiment
	if sentiment == "" {
		sentiment = "neutral"
	}
	sentiment = normalizeSentiment(sentiment)

	return &Result{
		Summary:        payload.Summary,
		Sentiment:      sentiment,
		SentimentScore: clampScore(coerceScore(payload.SentimentScore)),
		Keywords:       emptyIfNil(payload.Keywords),
		Pros:           emptyIfNil(payload.Pros),
		Cons:           emptyIfNil(payload.Cons),
	}, nil
}

func normalizeSentiment(sentiment string) string {
	switch sentiment {
	case "positive", "negative", "neutral", "mixed":
		return sentiment
	default:
		return "neutral"
	}
}

// coerceScore accepts the number formats models actually emit: JSON
// numbers, numeric strings, and absent values.
func coerceScore(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func clampScore(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
