package domain

// FleetMode is the policy governing how many and which candidates are raced.
type FleetMode string

const (
	ModeUltraFree FleetMode = "ultra_free"
	ModeBalanced  FleetMode = "balanced"
	ModeSOTAOnly  FleetMode = "SOTA_only"
)

// DelegationConfig controls candidate selection and racing for one delegation.
type DelegationConfig struct {
	Mode          FleetMode `mapstructure:"mode" json:"mode" validate:"oneof=ultra_free balanced SOTA_only"`
	RaceCount     int       `mapstructure:"race_count" json:"race_count" validate:"min=1"`
	FallbackDepth int       `mapstructure:"fallback_depth" json:"fallback_depth" validate:"min=0"`
	Transparent   bool      `mapstructure:"transparent" json:"transparent"`
}

// DefaultDelegationConfig mirrors the balanced out-of-the-box behavior.
func DefaultDelegationConfig() DelegationConfig {
	return DelegationConfig{
		Mode:          ModeBalanced,
		RaceCount:     3,
		FallbackDepth: 2,
	}
}

// FreePolicy is how a provider adapter decides a model is free.
type FreePolicy string

const (
	// FreePolicyPricing inspects the pricing triple for zero-cost markers.
	FreePolicyPricing FreePolicy = "pricing"
	// FreePolicyAllowlist trusts a static id list from configuration.
	FreePolicyAllowlist FreePolicy = "allowlist"
	// FreePolicyAll assumes every model the provider lists is free.
	FreePolicyAll FreePolicy = "all"
)

// ProviderConfig is the unified configuration shape for one provider adapter.
type ProviderConfig struct {
	ID         string            `mapstructure:"id" json:"id" validate:"required"`
	Type       string            `mapstructure:"type" json:"type"`
	Name       string            `mapstructure:"name" json:"name"`
	BaseURL    string            `mapstructure:"base_url" json:"base_url"`
	APIKey     string            `mapstructure:"api_key" json:"-"`
	FreePolicy FreePolicy        `mapstructure:"free_policy" json:"free_policy"`
	FreeModels []string          `mapstructure:"free_models" json:"free_models,omitempty"`
	Enabled    bool              `mapstructure:"enabled" json:"enabled"`
	Extra      map[string]string `mapstructure:"extra" json:"extra,omitempty"`
}

// TaskType is the coarse classification of an incoming prompt.
type TaskType string

const (
	TaskCode      TaskType = "code"
	TaskReasoning TaskType = "reasoning"
	TaskQuick     TaskType = "quick"
	TaskVision    TaskType = "vision"
	TaskGeneral   TaskType = "general"
)

// CategoryForTask maps a task type to the category raced for it.
func CategoryForTask(t TaskType) Category {
	switch t {
	case TaskCode:
		return CategoryCoding
	case TaskReasoning:
		return CategoryReasoning
	case TaskQuick:
		return CategorySpeed
	case TaskVision:
		return CategoryMultimodal
	default:
		return CategoryWriting
	}
}
