package llm

import (
	"strings"
	"unicode/utf8"
)

// pricing is USD per 1M tokens.
type pricing struct {
	input  float64
	output float64
}

// prices covers the default completion models of each hosted provider.
// Ollama models are local and cost nothing. Keys are model-name prefixes so
// that dated snapshots ("gpt-4o-2024-08-06") and routed names
// ("openai/gpt-4o-mini") resolve to their family.
var prices = map[string]pricing{
	"gpt-4-turbo":       {10.00, 30.00},
	"gpt-4o":            {2.50, 10.00},
	"gpt-4o-mini":       {0.15, 0.60},
	"claude-sonnet-4-5": {3.00, 15.00},
	"claude-haiku-4-5":  {0.80, 4.00},
	"gemini-2.0-flash":  {0.10, 0.40},
	"gemini-1.5-pro":    {1.25, 5.00},
}

// lookupPrice finds the longest price-table prefix of model, ignoring a
// router namespace such as "openai/".
func lookupPrice(model string) (pricing, bool) {
	if _, name, ok := strings.Cut(model, "/"); ok {
		model = name
	}
	var (
		best    pricing
		bestLen int
	)
	for prefix, p := range prices {
		if strings.HasPrefix(model, prefix) && len(prefix) > bestLen {
			best, bestLen = p, len(prefix)
		}
	}
	return best, bestLen > 0
}

// EstimateCost returns the estimated USD cost of one completion, or 0 for
// local and unknown models.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := lookupPrice(model)
	if !ok {
		return 0
	}
	return (float64(inputTokens)*p.input + float64(outputTokens)*p.output) / 1_000_000
}

// EstimateTokens approximates a token count as one token per four
// characters, for providers that do not report usage.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return max(n/4, 1)
}
