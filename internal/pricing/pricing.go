// Package pricing maps model identifiers to per-token prices and computes
// per-turn costs. Prices are expressed in dollars per million tokens.
package pricing

// Price holds input and output prices for a model, in dollars per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// defaultPrice is the fallback tier for model identifiers not present in the
// table. An unrecognized model is an operational fact, not a caller bug, so
// lookups never fail; they price at the standard sonnet tier.
var defaultPrice = Price{Input: 3, Output: 15}

var table = map[string]Price{
	"claude-sonnet-4-5-20250929": {Input: 3, Output: 15},
	"claude-opus-4-20250514":     {Input: 15, Output: 75},
	"claude-sonnet-4-20250514":   {Input: 3, Output: 15},
}

// For returns the price tier for the given model identifier, falling back to
// the default tier for unknown models.
func For(modelID string) Price {
	if p, ok := table[modelID]; ok {
		return p
	}
	return defaultPrice
}

// TurnCost computes the dollar cost of a single exchange from its token
// counts. No rounding is applied; rounding happens only at display time.
func TurnCost(inputTokens, outputTokens int64, modelID string) float64 {
	p := For(modelID)
	return float64(inputTokens)*p.Input/1e6 + float64(outputTokens)*p.Output/1e6
}
