// Package gemini derives Google's AI Studio free-tier policy from the
// public pricing page.
package gemini

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/logger"
)

const policyURL = "https://ai.google.dev/pricing"

// fallbackModels is served when the page cannot be fetched or parsed. It
// reflects the long-standing AI Studio free tier.
var fallbackModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
}

type Scraper struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func New() *Scraper {
	return &Scraper{
		url:    policyURL,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    logger.Get().Named("gemini-scraper"),
	}
}

// NewWithURL is used by tests to point the scraper at a fixture server.
func NewWithURL(url string) *Scraper {
	s := New()
	s.url = url
	return s
}

func (s *Scraper) ProviderID() string { return "gemini" }
func (s *Scraper) PolicyURL() string  { return s.url }

// Scrape never fails: any fetch or parse problem degrades to the static
// fallback policy.
func (s *Scraper) Scrape(ctx context.Context) *domain.ScrapedPolicy {
	models, err := s.scrapeModels(ctx)
	if err != nil {
		s.log.Warn("pricing page scrape failed, using static fallback", zap.Error(err))
		models = fallbackModels
	}

	return &domain.ScrapedPolicy{
		Provider:       "gemini",
		UpdatedAt:      time.Now(),
		FreeTierActive: len(models) > 0,
		FreeModels:     models,
	}
}

func (s *Scraper) scrapeModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	// The pricing page renders one section per model; free-tier models
	// carry a "Free of charge" marker in their rate card.
	seen := make(map[string]struct{})
	var models []string
	doc.Find("section, table").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if !strings.Contains(strings.ToLower(text), "free of charge") {
			return
		}
		sel.Find("h2, h3, caption").Each(func(_ int, heading *goquery.Selection) {
			id := normalizeModelName(heading.Text())
			if id == "" {
				return
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				models = append(models, id)
			}
		})
	})

	if len(models) == 0 {
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode, Body: []byte("no free-tier sections found")}
	}
	return models, nil
}

// normalizeModelName lowers "Gemini 2.0 Flash-Lite" into the wire id
// "gemini-2.0-flash-lite".
func normalizeModelName(heading string) string {
	heading = strings.TrimSpace(strings.ToLower(heading))
	if !strings.HasPrefix(heading, "gemini") {
		return ""
	}
	return strings.Join(strings.Fields(heading), "-")
}
