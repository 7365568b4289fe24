// Package suggest classifies a transaction description into one of the
// ledger's catalog categories using Gemini.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"fintrack/internal/core"
)

type Suggester struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewSuggester creates a Gemini-backed suggester. Credentials come from the
// environment, same as the rest of the Google clients.
func NewSuggester(ctx context.Context, model string, timeout time.Duration) (*Suggester, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Suggester{client: client, model: model, timeout: timeout}, nil
}

// SuggestCategory returns the catalog value best matching the description.
// The model output is validated against the catalog; anything else falls
// back to "other".
func (s *Suggester) SuggestCategory(ctx context.Context, description string, catalog []core.Category) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "other", nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: BuildPrompt(description, catalog)},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return ParseResponse(raw, catalog), nil
}

// BuildPrompt renders the classification instruction with the allowed
// category values inlined.
func BuildPrompt(description string, catalog []core.Category) string {
	var b strings.Builder
	b.WriteString("You are a personal finance transaction classifier.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Classify the transaction description below into exactly one category.\n")
	b.WriteString("- Answer with the category value ONLY: one word, lowercase, no punctuation.\n")
	b.WriteString("- Do NOT wrap the answer in quotes, code fences or Markdown.\n\n")

	b.WriteString("Use ONLY the following category values:\n")
	for _, cat := range catalog {
		b.WriteString("  - " + cat.Value)
		if cat.Label != "" && !strings.EqualFold(cat.Label, cat.Value) {
			b.WriteString(" (" + cat.Label + ")")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nIf none fits, answer \"other\".\n\n")

	b.WriteString("Transaction description: " + strings.TrimSpace(description) + "\n")
	return b.String()
}

// ParseResponse normalizes the model output and validates it against the
// catalog. Unknown answers map to "other".
func ParseResponse(raw string, catalog []core.Category) string {
	s := strings.TrimSpace(raw)

	// Strip code fences if the model ignored instructions.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}

	// Keep the first line only, trimmed of quotes and trailing punctuation.
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		s = s[:idx]
	}
	s = strings.ToLower(strings.Trim(strings.TrimSpace(s), `"'.`))

	for _, cat := range catalog {
		if s == cat.Value || strings.EqualFold(s, cat.Label) {
			return cat.Value
		}
	}
	return "other"
}
