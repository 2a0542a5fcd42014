package scout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/phorde/freefleet/internal/adapters/providers/generic"
	_ "github.com/phorde/freefleet/internal/adapters/providers/openrouter"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/store/jsonfile"
)

func catalogServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "unavailable", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDetectProviderIDs(t *testing.T) {
	cfg := Config{
		Providers: []domain.ProviderConfig{
			{ID: "openrouter", Enabled: true},
			{ID: "disabled-one", Enabled: false},
		},
		CategoryFallbacks: map[string][]string{
			"coding": {"groq/llama-3.3-70b", "openrouter/qwen-coder"},
			"speed":  {"cerebras/llama-3.1-8b"},
		},
	}

	ids := detectProviderIDs(cfg)
	assert.Equal(t, []string{"openrouter", "groq", "cerebras"}, ids)
}

func TestZeroProvidersIsTerminal(t *testing.T) {
	s, err := New(Config{}, nil)
	require.NoError(t, err)

	_, err = s.Discover(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoProviders)
}

func TestBlocklistShieldsAuthenticatedProviders(t *testing.T) {
	server := catalogServer(t, `{"data":[{"id":"copilot-fast"}]}`, http.StatusOK)
	auditPath := filepath.Join(t.TempDir(), "audit.jsonl")
	audit := jsonfile.NewAuditLog(auditPath)

	s, err := New(Config{
		Providers: []domain.ProviderConfig{
			{ID: "github-copilot", Type: "generic", BaseURL: server.URL, FreePolicy: domain.FreePolicyAll, Enabled: true},
		},
		AuthBridges: map[string]bool{"github-copilot": true},
	}, audit)
	require.NoError(t, err)

	result, err := s.Discover(context.Background())
	require.NoError(t, err)

	for _, cr := range result.Categories {
		assert.Empty(t, cr.Models)
	}

	events := audit.Recent(context.Background(), 10)
	require.Len(t, events, 1)
	assert.Equal(t, "github-copilot", events[0].Provider)
	assert.Contains(t, events[0].Reason, "credentials present")
}

func TestBlocklistDisabledByExplicitOptIn(t *testing.T) {
	cfg := Config{
		AuthBridges:        map[string]bool{"github-copilot": true},
		AllowPaidProviders: true,
	}
	assert.Empty(t, buildBlocklist(cfg))
}

func TestDiscoverSurvivesFailingProvider(t *testing.T) {
	healthy := catalogServer(t, `{
	  "data": [
	    {"id": "qwen-2.5-coder-32b:free", "pricing": {"prompt": "0", "completion": "0"}}
	  ]
	}`, http.StatusOK)
	broken := catalogServer(t, "", http.StatusInternalServerError)

	s, err := New(Config{
		Providers: []domain.ProviderConfig{
			{ID: "openrouter", Type: "openrouter", BaseURL: healthy.URL, Enabled: true},
			{ID: "flaky", Type: "generic", BaseURL: broken.URL, FreePolicy: domain.FreePolicyAll, Enabled: true},
		},
	}, nil)
	require.NoError(t, err)

	result, err := s.Discover(context.Background())
	require.NoError(t, err, "one provider failing must not abort the pass")

	coding := result.Categories[domain.CategoryCoding]
	require.Len(t, coding.Models, 1)
	assert.Equal(t, "qwen-2.5-coder-32b:free", coding.Models[0].ID)
	assert.Equal(t, "openrouter", coding.Models[0].Provider)
}

func TestDiscoverDropsNonFreeModels(t *testing.T) {
	server := catalogServer(t, `{
	  "data": [
	    {"id": "free-model-9b:free", "pricing": {"prompt": "0", "completion": "0"}},
	    {"id": "paid-model-9b", "pricing": {"prompt": "0.002", "completion": "0.01"}}
	  ]
	}`, http.StatusOK)

	s, err := New(Config{
		Providers: []domain.ProviderConfig{
			{ID: "openrouter", Type: "openrouter", BaseURL: server.URL, Enabled: true},
		},
	}, nil)
	require.NoError(t, err)

	result, err := s.Discover(context.Background())
	require.NoError(t, err)

	var all []string
	for _, cr := range result.Categories {
		all = append(all, idsOf(cr.Models)...)
	}
	assert.Contains(t, all, "free-model-9b:free")
	assert.NotContains(t, all, "paid-model-9b")
}

func TestModelsLandInEveryMatchedCategory(t *testing.T) {
	server := catalogServer(t, `{
	  "data": [
	    {"id": "deepseek-r1-distill-70b:free", "pricing": {"prompt": "0", "completion": "0"}}
	  ]
	}`, http.StatusOK)

	s, err := New(Config{
		Providers: []domain.ProviderConfig{
			{ID: "openrouter", Type: "openrouter", BaseURL: server.URL, Enabled: true},
		},
	}, nil)
	require.NoError(t, err)

	result, err := s.Discover(context.Background())
	require.NoError(t, err)

	// "deepseek" keyword places it in coding, "r1" in reasoning: the
	// categorization is a non-exclusive partition.
	assert.Len(t, result.Categories[domain.CategoryCoding].Models, 1)
	assert.Len(t, result.Categories[domain.CategoryReasoning].Models, 1)
	assert.Empty(t, result.Categories[domain.CategoryWriting].Models)
}
