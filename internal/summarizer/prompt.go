package summarizer

import (
	"fmt"
	"strings"
)

// systemPrompt is shared by both providers; Gemini receives it prepended
// to the user prompt since its API has no separate system role here.
const systemPrompt = `You are a professional review analyst. Analyze the given review and produce a structured JSON response with exactly these keys:
  "summary": a concise 1-3 sentence summary of the review,
  "sentiment": one of "positive", "negative", "neutral", or "mixed",
  "sentiment_score": a float from -1.0 (most negative) to 1.0 (most positive),
  "keywords": a list of up to 10 relevant keywords,
  "pros": a list of identified advantages or positive points,
  "cons": a list of identified disadvantages or negative points.
Respond ONLY with valid JSON. Do not include markdown fences.`

func userPrompt(title, content string) string {
	var b strings.Builder

	b.WriteString("Analyze this review:\n")
	fmt.Fprintf(&b, "Title: %s\n", title)
	fmt.Fprintf(&b, "Content: %s\n\n", content)
	b.WriteString("Provide: 1) Brief summary 2) Sentiment (positive/negative/neutral/mixed) ")
	b.WriteString("3) Sentiment score (-1.0 to 1.0) 4) Keywords 5) Pros 6) Cons\n\n")
	b.WriteString("Respond in JSON format.")

	return b.String()
}
