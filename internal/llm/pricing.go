package llm

import "strings"

// Price is the USD cost per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Cost returns the USD cost of one call.
func (p Price) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1_000_000
}

// prices covers the models the friendly names resolve to plus common
// direct IDs.
var prices = map[string]Price{
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},

	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4":   {3, 15},
	"claude-sonnet-4-5": {3, 15},

	"google/gemini-2.5-flash": {0.3, 2.5},
}

// PriceFor looks up a model's price. Providers report dated or prefixed IDs
// ("gpt-4o-mini-2024-07-18", "models/gemini-2.5-flash"); these match the
// longest listed base ID.
func PriceFor(model string) (Price, bool) {
	model = strings.TrimPrefix(model, "models/")
	if p, ok := prices[model]; ok {
		return p, true
	}

	best := ""
	for base := range prices {
		if len(base) > len(best) && strings.HasPrefix(model, base+"-") {
			best = base
		}
	}
	if best == "" {
		return Price{}, false
	}
	return prices[best], true
}

// EstimateCost returns the USD cost of a call, and false when the model has
// no price.
func EstimateCost(model string, inputTokens, outputTokens int) (float64, bool) {
	p, ok := PriceFor(model)
	if !ok {
		return 0, false
	}
	return p.Cost(inputTokens, outputTokens), true
}
