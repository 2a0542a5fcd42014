package domain

import "fmt"

// CostTier is the categorical verdict on a model's cost status.
type CostTier string

const (
	TierConfirmedFree    CostTier = "CONFIRMED_FREE"
	TierConfirmedPaid    CostTier = "CONFIRMED_PAID"
	TierFreemiumLimited  CostTier = "FREEMIUM_LIMITED"
	TierUnknown          CostTier = "UNKNOWN"
)

// Category is a functional bucket a model is ranked within.
type Category string

const (
	CategoryCoding     Category = "coding"
	CategoryReasoning  Category = "reasoning"
	CategorySpeed      Category = "speed"
	CategoryMultimodal Category = "multimodal"
	// CategoryWriting is the fallback when no other category matches.
	CategoryWriting Category = "writing"
)

// Categories lists every functional category in classification order.
// Writing must stay last: it only applies when nothing else matched.
var Categories = []Category{
	CategoryCoding,
	CategoryReasoning,
	CategorySpeed,
	CategoryMultimodal,
	CategoryWriting,
}

// Pricing carries a provider's raw cost markers. Providers report "0",
// "0.0", "0.000001" or omit the field entirely, so these stay free-form
// strings until an adapter interprets them.
type Pricing struct {
	Prompt     string `json:"prompt,omitempty"`
	Completion string `json:"completion,omitempty"`
	Request    string `json:"request,omitempty"`
}

// FreeModel is the normalized record for one (provider, model) pair.
// Records are created by an adapter during a discovery pass and never
// mutated afterwards.
type FreeModel struct {
	ID              string     `json:"id"`
	Provider        string     `json:"provider"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	ContextLength   int        `json:"context_length,omitempty"`
	MaxOutputTokens int        `json:"max_output_tokens,omitempty"`
	Pricing         Pricing    `json:"pricing"`
	IsFree          bool       `json:"is_free"`
	IsElite         bool       `json:"is_elite"`
	Category        Category   `json:"category"`
	Confidence      float64    `json:"confidence"`
	Tier            CostTier   `json:"tier"`
	Categories      []Category `json:"categories,omitempty"`
}

// FullID returns the fully-qualified "provider/model" identifier used
// as a race candidate id.
func (m FreeModel) FullID() string {
	return fmt.Sprintf("%s/%s", m.Provider, m.ID)
}

// CategoryResult holds one category's slice of a discovery pass: the raw
// set, the benchmark-ranked ordering, and the elite subset. Recomputed on
// every Scout pass, never persisted.
type CategoryResult struct {
	Category Category    `json:"category"`
	Models   []FreeModel `json:"models"`
	Ranked   []FreeModel `json:"ranked"`
	Elite    []FreeModel `json:"elite"`
}

// ScoutResult is the full outcome of one discovery pass keyed by category.
type ScoutResult struct {
	Categories map[Category]*CategoryResult `json:"categories"`
	Providers  []string                     `json:"providers"`
}

// ModelsFor returns the ranked models for a category, or nil when the
// category has no entry.
func (r *ScoutResult) ModelsFor(c Category) []FreeModel {
	if r == nil || r.Categories == nil {
		return nil
	}
	if cr, ok := r.Categories[c]; ok {
		return cr.Ranked
	}
	return nil
}
