package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/config"
	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/core/ports"
	"github.com/phorde/freefleet/internal/delegator"
)

type stubService struct {
	latest    *domain.ScoutResult
	discover  func(ctx context.Context) (*domain.ScoutResult, error)
	verdict   *domain.ModelMetadata
	verifyErr error
	delegate  func(req delegator.Request) (*delegator.Result, error)
	audit     []ports.AuditEvent
}

func (s *stubService) Discover(ctx context.Context) (*domain.ScoutResult, error) {
	if s.discover != nil {
		return s.discover(ctx)
	}
	return s.latest, nil
}

func (s *stubService) Latest() *domain.ScoutResult { return s.latest }

func (s *stubService) Verify(ctx context.Context, providerID, modelID string) (*domain.ModelMetadata, error) {
	return s.verdict, s.verifyErr
}

func (s *stubService) Delegate(ctx context.Context, req delegator.Request) (*delegator.Result, error) {
	return s.delegate(req)
}

func (s *stubService) RecentAudit(ctx context.Context, n int) []ports.AuditEvent {
	if n < len(s.audit) {
		return s.audit[len(s.audit)-n:]
	}
	return s.audit
}

func (s *stubService) Metrics(ctx context.Context) map[string]ports.UsageStats {
	return map[string]ports.UsageStats{}
}

func (s *stubService) CancelAll() {}

func newTestServer(svc *stubService) *Server {
	cfg := &config.Config{}
	cfg.Server.Env = "production"
	return New(cfg, zap.NewNop(), svc)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListModelsByCategory(t *testing.T) {
	svc := &stubService{
		latest: &domain.ScoutResult{
			Categories: map[domain.Category]*domain.CategoryResult{
				domain.CategoryCoding: {
					Category: domain.CategoryCoding,
					Ranked: []domain.FreeModel{
						{ID: "qwen-coder", Provider: "openrouter", IsFree: true},
					},
				},
			},
			Providers: []string{"openrouter"},
		},
	}
	srv := newTestServer(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/models?category=coding", nil)
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Category string             `json:"category"`
		Data     []domain.FreeModel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "coding", body.Category)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "qwen-coder", body.Data[0].ID)
}

func TestListModelsUnknownCategory(t *testing.T) {
	svc := &stubService{latest: &domain.ScoutResult{Categories: map[domain.Category]*domain.CategoryResult{}}}
	srv := newTestServer(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/models?category=quantum", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListModelsDiscoveryFailure(t *testing.T) {
	svc := &stubService{
		discover: func(ctx context.Context) (*domain.ScoutResult, error) {
			return nil, domain.ErrNoProviders
		},
	}
	srv := newTestServer(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "No Providers Available")
}

func TestVerifyEndpoint(t *testing.T) {
	svc := &stubService{
		verdict: &domain.ModelMetadata{
			ID:         "gemini-2.0-flash",
			Provider:   "gemini",
			IsFree:     true,
			Tier:       domain.TierConfirmedFree,
			Confidence: 1.0,
		},
	}
	srv := newTestServer(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/verify/gemini/gemini-2.0-flash", nil)
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var verdict domain.ModelMetadata
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verdict))
	assert.True(t, verdict.IsFree)
	assert.Equal(t, domain.TierConfirmedFree, verdict.Tier)
}

func TestDelegateEndpoint(t *testing.T) {
	svc := &stubService{
		delegate: func(req delegator.Request) (*delegator.Result, error) {
			return &delegator.Result{
				Candidate: "groq/llama-3.3-70b",
				Category:  domain.CategoryCoding,
				TaskType:  domain.TaskCode,
				Output:    "done",
				Duration:  120 * time.Millisecond,
				Attempts:  1,
			}, nil
		},
	}
	srv := newTestServer(svc)

	payload, _ := json.Marshal(map[string]string{"prompt": "write a parser"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/delegate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Candidate  string `json:"candidate"`
		Attempts   int    `json:"attempts"`
		DurationMS int64  `json:"duration_ms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "groq/llama-3.3-70b", body.Candidate)
	assert.Equal(t, 1, body.Attempts)
	assert.Equal(t, int64(120), body.DurationMS)
}

func TestDelegateRejectsMissingPrompt(t *testing.T) {
	srv := newTestServer(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/delegate", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelegateExhaustedMapsToBadGateway(t *testing.T) {
	svc := &stubService{
		delegate: func(req delegator.Request) (*delegator.Result, error) {
			return nil, &domain.ExhaustedError{Attempts: 3, Last: domain.ErrRaceCancelled}
		},
	}
	srv := newTestServer(svc)

	payload, _ := json.Marshal(map[string]string{"prompt": "anything"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/delegate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "All Candidates Failed")
}

func TestAuditEndpoint(t *testing.T) {
	svc := &stubService{
		audit: []ports.AuditEvent{
			{Provider: "github-copilot", Reason: "requires paid subscription auth"},
		},
	}
	srv := newTestServer(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/audit", nil)
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "github-copilot")
}
