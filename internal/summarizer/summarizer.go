package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	requestTimeout = 30 * time.Second

	// Low temperature keeps the model close to the requested JSON schema.
	modelTemperature = 0.3
)

// ErrUnavailable is returned for every summary generation failure:
// missing provider configuration, unreachable upstream, non-2xx upstream
// status, or a malformed upstream response. Callers treat summary
// generation as best-effort and match on this sentinel.
var ErrUnavailable = errors.New("summary service unavailable")

// ErrNotConfigured is returned without any network call when no provider
// credential is configured.
var ErrNotConfigured = fmt.Errorf("%w: no provider API key configured", ErrUnavailable)

// Input describes the payload for a summary request.
type Input struct {
	// Content contains the review body to analyze.
	Content string
	// Title is optional context shown to the model alongside the content.
	Title string
}

// Result is a normalized sentiment summary. Sentiment is always one of
// the four known values and SentimentScore is clamped to [-1, 1].
type Result struct {
	Summary        string
	Sentiment      string
	SentimentScore float64
	Keywords       []string
	Pros           []string
	Cons           []string
	// AIModel identifies the provider model that produced the result.
	// It is stamped by this package, never read from the provider payload.
	AIModel string
}

// Summarizer produces a single normalized summary per call.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (*Result, error)
}

// FromConfig selects the provider by credential presence: OpenAI when its
// key is set, otherwise Gemini, otherwise an unconfigured stub. The
// selection is exclusive; a failed call is never retried against the
// other provider.
func FromConfig(openAIAPIKey, geminiAPIKey string) Summarizer {
	openAIAPIKey = strings.TrimSpace(openAIAPIKey)
	geminiAPIKey = strings.TrimSpace(geminiAPIKey)

	switch {
	case openAIAPIKey != "":
		return NewOpenAISummarizer(openAIAPIKey)
	case geminiAPIKey != "":
		return NewGeminiSummarizer(geminiAPIKey)
	default:
		return Unconfigured{}
	}
}

// Unconfigured fails every call with ErrNotConfigured and performs no
// network activity.
type Unconfigured struct{}

func (Unconfigured) Summarize(_ context.Context, _ Input) (*Result, error) {
	return nil, ErrNotConfigured
}
