package suggest

import (
	"strings"
	"testing"

	"fintrack/internal/core"
)

var testCatalog = []core.Category{
	{Value: "food", Label: "Food & Dining"},
	{Value: "transportation", Label: "Transportation"},
	{Value: "other", Label: "Other"},
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("UBER TRIP HELP.UBER.COM", testCatalog)

	for _, want := range []string{"food", "transportation", "other", "UBER TRIP HELP.UBER.COM"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(prompt, "Food & Dining") {
		t.Error("prompt missing category label")
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"exact value", "food", "food"},
		{"upper case", "FOOD", "food"},
		{"quoted", `"transportation"`, "transportation"},
		{"trailing period", "food.", "food"},
		{"label match", "Food & Dining", "food"},
		{"code fence", "```\nfood\n```", "food"},
		{"json fence", "```json\ntransportation\n```", "transportation"},
		{"multi line", "food\nbecause it looks like a restaurant", "food"},
		{"unknown answer", "cryptocurrency", "other"},
		{"empty", "", "other"},
		{"whitespace", "   \n  ", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseResponse(tt.raw, testCatalog); got != tt.want {
				t.Errorf("ParseResponse(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
