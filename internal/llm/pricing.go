package llm

import "strings"

// Price is USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Cost returns the USD cost of a call with the given token counts.
func (p Price) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1e6
}

// prices covers the models the aliases resolve to plus common pins.
var prices = map[string]Price{
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4-5": {3, 15},
	"claude-3-5-haiku":  {0.8, 4},
	"gpt-4o":            {2.5, 10},
	"gpt-4o-mini":       {0.15, 0.6},
	"gpt-4.1-mini":      {0.4, 1.6},
	"gemini-2.0-flash":  {0.1, 0.4},
	"gemini-2.5-flash":  {0.3, 2.5},
	"gemini-2.5-pro":    {1.25, 10},
}

// LookupPrice finds the price for a model id. OpenRouter's vendor prefix and
// dated suffixes such as -20251001 or -001 are ignored.
func LookupPrice(model string) (Price, bool) {
	if i := strings.LastIndexByte(model, '/'); i >= 0 {
		model = model[i+1:]
	}
	for id := model; id != ""; {
		if p, ok := prices[id]; ok {
			return p, true
		}
		i := strings.LastIndexByte(id, '-')
		if i < 0 {
			break
		}
		id = id[:i]
	}
	return Price{}, false
}
