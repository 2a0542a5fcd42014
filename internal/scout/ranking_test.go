package scout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phorde/freefleet/internal/core/domain"
)

func idsOf(models []domain.FreeModel) []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = m.ID
	}
	return out
}

func TestParamCount(t *testing.T) {
	assert.Equal(t, 70, paramCount("x-70b"))
	assert.Equal(t, 8, paramCount("llama-3.1-8b-instant"))
	assert.Equal(t, 32, paramCount("qwen-2.5-coder-32b"))
	assert.Equal(t, 0, paramCount("gpt-4o"))
}

func TestRankByParameterCount(t *testing.T) {
	models := []domain.FreeModel{
		{ID: "x-7b", Provider: "groq"},
		{ID: "x-70b", Provider: "groq"},
		{ID: "x-3b", Provider: "groq"},
	}

	coding := RankModelsByBenchmark(models, domain.CategoryCoding)
	assert.Equal(t, []string{"x-70b", "x-7b", "x-3b"}, idsOf(coding))

	speed := RankModelsByBenchmark(models, domain.CategorySpeed)
	assert.Equal(t, []string{"x-3b", "x-7b", "x-70b"}, idsOf(speed))
}

func TestRankEliteBeatsEverything(t *testing.T) {
	models := []domain.FreeModel{
		{ID: "some-llm-405b", Provider: "openrouter"},
		{ID: "qwen2.5-coder-7b", Provider: "huggingface"},
	}

	ranked := RankModelsByBenchmark(models, domain.CategoryCoding)
	assert.Equal(t, "qwen2.5-coder-7b", ranked[0].ID)
	assert.True(t, ranked[0].IsElite)
	assert.False(t, ranked[1].IsElite)
}

func TestRankProviderPriority(t *testing.T) {
	models := []domain.FreeModel{
		{ID: "m-9b", Provider: "unknown-lab"},
		{ID: "m-9b", Provider: "groq"},
		{ID: "m-9b", Provider: "openrouter"},
	}

	ranked := RankModelsByBenchmark(models, domain.CategoryWriting)
	providers := []string{ranked[0].Provider, ranked[1].Provider, ranked[2].Provider}
	assert.Equal(t, []string{"openrouter", "groq", "unknown-lab"}, providers)
}

func TestRankMissingParamCountFallsThroughToID(t *testing.T) {
	models := []domain.FreeModel{
		{ID: "zeta", Provider: "groq"},
		{ID: "alpha", Provider: "groq"},
		{ID: "beta-12b", Provider: "groq"},
	}

	ranked := RankModelsByBenchmark(models, domain.CategoryCoding)
	// No pairwise comparison has two extractable counts, so lexicographic
	// id ordering decides.
	assert.Equal(t, []string{"alpha", "beta-12b", "zeta"}, idsOf(ranked))
}
