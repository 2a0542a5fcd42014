package oracle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phorde/freefleet/internal/core/domain"
)

func TestAllowListMutation(t *testing.T) {
	l := NewAllowList([]string{"a/one"})
	assert.True(t, l.Contains("a/one"))

	l.Add("b/two")
	assert.True(t, l.Contains("b/two"))

	l.Remove("a/one")
	assert.False(t, l.Contains("a/one"))
	assert.Equal(t, 1, l.Len())
}

func TestMergeCommunityVersionGate(t *testing.T) {
	l := NewAllowList(nil)

	added := l.MergeCommunity(&domain.CommunityList{
		Version: "1.1.0",
		Models:  []string{"openrouter/m1"},
	})
	assert.Equal(t, 1, added)

	// An older document is ignored.
	added = l.MergeCommunity(&domain.CommunityList{
		Version: "1.0.0",
		Models:  []string{"openrouter/m2"},
	})
	assert.Equal(t, 0, added)
	assert.False(t, l.Contains("openrouter/m2"))

	// A newer one merges, without removing anything.
	added = l.MergeCommunity(&domain.CommunityList{
		Version: "1.2.0",
		Models:  []string{"openrouter/m3"},
	})
	assert.Equal(t, 1, added)
	assert.True(t, l.Contains("openrouter/m1"))
	assert.True(t, l.Contains("openrouter/m3"))
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models:\n  - openrouter/llama-3.3-70b-instruct:free\n  - groq/llama-3.1-8b-instant\n"), 0o644))

	models, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"openrouter/llama-3.3-70b-instruct:free", "groq/llama-3.1-8b-instant"}, models)
}
