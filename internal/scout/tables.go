package scout

import (
	"strings"

	"github.com/phorde/freefleet/internal/core/domain"
)

// providerPriority is the static benchmark-informed provider ranking used
// as a ranking tiebreak. Lower is preferred; unlisted providers sink to
// the bottom.
var providerPriority = map[string]int{
	"openrouter":  1,
	"groq":        2,
	"gemini":      3,
	"cerebras":    4,
	"mistral":     5,
	"cohere":      6,
	"huggingface": 7,
	"ollama":      8,
}

const unrankedPriority = 1 << 10

func priorityOf(provider string) int {
	if p, ok := providerPriority[provider]; ok {
		return p
	}
	return unrankedPriority
}

// eliteFamilies names model lineages known to lead benchmarks per
// category. Matching is case-insensitive substring on the model id.
var eliteFamilies = map[domain.Category][]string{
	domain.CategoryCoding:     {"qwen2.5-coder", "qwen-2.5-coder", "deepseek-v3", "deepseek-chat", "codestral", "devstral"},
	domain.CategoryReasoning:  {"deepseek-r1", "qwq", "o1", "phi-4-reasoning"},
	domain.CategorySpeed:      {"gemini-2.0-flash", "llama-3.1-8b-instant", "mistral-small", "haiku"},
	domain.CategoryMultimodal: {"gemini-2.0-flash", "pixtral", "qwen2-vl", "llama-3.2-90b-vision"},
	domain.CategoryWriting:    {"llama-3.3", "gemma-2", "mistral-large"},
}

// isEliteFor reports whether a model id belongs to an elite family of the
// given category.
func isEliteFor(modelID string, category domain.Category) bool {
	lower := strings.ToLower(modelID)
	for _, family := range eliteFamilies[category] {
		if strings.Contains(lower, family) {
			return true
		}
	}
	return false
}

// paidAuthFamilies maps a host authentication bridge to the provider ids it
// bills. Presence of such credentials blocklists the providers unless the
// operator explicitly opted in.
var paidAuthFamilies = map[string][]string{
	"github-copilot": {"github-copilot", "copilot"},
	"anthropic":      {"anthropic"},
	"openai":         {"openai"},
}
