package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/phorde/freefleet/internal/core/domain"
)

// HTTPClient is the minimal client surface, satisfied by *http.Client and
// by test doubles.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SendRequest handles the common logic of building a JSON request, sending
// it, and decoding the response. Non-2xx responses return a
// *domain.UpstreamError carrying the status and raw body.
func SendRequest(ctx context.Context, client HTTPClient, method, url string, headers map[string]string, body, response interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &domain.UpstreamError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if response != nil {
		if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetJSON is SendRequest specialized for bodyless GETs.
func GetJSON(ctx context.Context, client HTTPClient, url string, headers map[string]string, response interface{}) error {
	return SendRequest(ctx, client, http.MethodGet, url, headers, nil, response)
}
