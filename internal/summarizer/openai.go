package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIModel is the fixed model identifier stamped on results produced
// by the OpenAI provider.
const OpenAIModel = "gpt-4o-mini"

// OpenAISummarizer calls OpenAI's Chat Completions API with JSON output
// mode to produce summaries.
type OpenAISummarizer struct {
	client openai.Client
}

// NewOpenAISummarizer builds a new summarizer instance. Extra request
// options (such as a custom base URL in tests) are appended after the
// defaults.
func NewOpenAISummarizer(apiKey string, opts ...option.RequestOption) *OpenAISummarizer {
	merged := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(requestTimeout),
		// Single attempt per call; a failure surfaces to the caller.
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAISummarizer{client: openai.NewClient(merged...)}
}

// Summarize produces a single normalized summary for a review.
func (s *OpenAISummarizer) Summarize(ctx context.Context, input Input) (*Result, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.New("input content is empty")
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: OpenAIModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(input.Title, content)),
		},
		Temperature: openai.Float(modelTemperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: openai returned status %d", ErrUnavailable, apiErr.StatusCode)
		}
		return nil, fmt.Errorf("%w: openai request failed: %v", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai response has no choices", ErrUnavailable)
	}

	result, err := parseResult(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	result.AIModel = OpenAIModel
	return result, nil
}
