package models

import "strings"

// ModelPricing defines token pricing for a model family
type ModelPricing struct {
	Input         float64 `json:"input"`          // Per million tokens
	Output        float64 `json:"output"`         // Per million tokens
	CacheRead     float64 `json:"cache_read"`     // Per million tokens
	CacheCreation float64 `json:"cache_creation"` // Per million tokens (cache write)
}

// Cost returns the USD cost of the given token counts under this schedule
func (p ModelPricing) Cost(input, output, cacheRead, cacheCreation int) float64 {
	inputCost := float64(input) / TokensPerMillion * p.Input
	outputCost := float64(output) / TokensPerMillion * p.Output
	cacheReadCost := float64(cacheRead) / TokensPerMillion * p.CacheRead
	cacheCreationCost := float64(cacheCreation) / TokensPerMillion * p.CacheCreation

	return inputCost + outputCost + cacheReadCost + cacheCreationCost
}

// IsZero reports whether every rate is zero
func (p ModelPricing) IsZero() bool {
	return p == ModelPricing{}
}

type modelFamily struct {
	displayName string
	patterns    []string
	pricing     ModelPricing
}

// modelFamilies is evaluated in order; the first family with a matching pattern wins.
var modelFamilies = []modelFamily{
	{
		displayName: "Opus 4",
		patterns:    []string{"opus-4", "claude-opus-4"},
		pricing: ModelPricing{
			Input:         15.00,
			Output:        75.00,
			CacheRead:     1.50,
			CacheCreation: 18.75,
		},
	},
	{
		displayName: "Sonnet 4",
		patterns:    []string{"sonnet-4", "claude-sonnet-4"},
		pricing: ModelPricing{
			Input:         3.00,
			Output:        15.00,
			CacheRead:     0.30,
			CacheCreation: 3.75,
		},
	},
}

func lookupFamily(model string) (modelFamily, bool) {
	for _, family := range modelFamilies {
		for _, pattern := range family.patterns {
			if strings.Contains(model, pattern) {
				return family, true
			}
		}
	}
	return modelFamily{}, false
}

// PriceFor returns the pricing schedule for a model identifier.
// Unknown models get the zero schedule so they never report a fabricated cost.
func PriceFor(model string) ModelPricing {
	if family, ok := lookupFamily(model); ok {
		return family.pricing
	}
	return ModelPricing{}
}

// DisplayName returns a human label for a model, or the identifier itself when unknown
func DisplayName(model string) string {
	if family, ok := lookupFamily(model); ok {
		return family.displayName
	}
	return model
}

// ModelColor returns the hex colour for a model's family
func ModelColor(model string) string {
	switch {
	case strings.Contains(model, "opus"):
		return "#8B5CF6"
	case strings.Contains(model, "sonnet"):
		return "#3B82F6"
	case strings.Contains(model, "haiku"):
		return "#10B981"
	default:
		return "#6B7280"
	}
}

// CalculateCost computes the fallback cost of a record from the pricing table
func CalculateCost(model string, input, output, cacheRead, cacheCreation int) float64 {
	return PriceFor(model).Cost(input, output, cacheRead, cacheCreation)
}
