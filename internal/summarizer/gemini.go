package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GeminiModel is the fixed model identifier stamped on results produced
// by the Gemini provider.
const GeminiModel = "gemini-2.0-flash"

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiSummarizer calls the Gemini generateContent API to produce
// summaries. The API key travels in the query string, per the API.
type GeminiSummarizer struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGeminiSummarizer builds a new summarizer instance.
func NewGeminiSummarizer(apiKey string) *GeminiSummarizer {
	return &GeminiSummarizer{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// newGeminiSummarizerWithURL builds a summarizer against a custom base
// URL for testing.
func newGeminiSummarizerWithURL(apiKey string, client *http.Client, baseURL string) *GeminiSummarizer {
	return &GeminiSummarizer{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Summarize produces a single normalized summary for a review.
func (s *GeminiSummarizer) Summarize(ctx context.Context, input Input) (*Result, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.New("input content is empty")
	}

	// Gemini has no separate system role on this endpoint; both prompt
	// blocks travel as a single part.
	prompt := systemPrompt + "\n\n" + userPrompt(input.Title, content)

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      modelTemperature,
			ResponseMIMEType: "application/json",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", s.baseURL, GeminiModel, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini request failed: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read gemini response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gemini returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(respBody, &gemResp); err != nil {
		return nil, fmt.Errorf("%w: parse gemini envelope: %v", ErrUnavailable, err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: gemini response has no candidates", ErrUnavailable)
	}

	result, err := parseResult(gemResp.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	result.AIModel = GeminiModel
	return result, nil
}
