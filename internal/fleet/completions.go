package fleet

import (
	"context"
	"fmt"
	"strings"

	"github.com/phorde/freefleet/internal/core/domain"
	"github.com/phorde/freefleet/internal/httpclient"
	"github.com/phorde/freefleet/internal/racer"
)

// chatRequest is the OpenAI-compatible completion payload every supported
// provider accepts.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Completion is what a winning candidate produced.
type Completion struct {
	Model   string `json:"model"`
	Content string `json:"content"`
}

// ChatCaller turns a "provider/model" candidate id into one completion call
// against that provider's OpenAI-compatible endpoint.
type ChatCaller struct {
	client    httpclient.HTTPClient
	providers map[string]domain.ProviderConfig
}

func NewChatCaller(client httpclient.HTTPClient, providers []domain.ProviderConfig) *ChatCaller {
	byID := make(map[string]domain.ProviderConfig, len(providers))
	for _, p := range providers {
		byID[p.ID] = p
	}
	return &ChatCaller{client: client, providers: byID}
}

// ExecutorFor binds a prompt into a race executor. The candidate id carries
// the provider half of the routing decision.
func (c *ChatCaller) ExecutorFor(prompt string) racer.Executor {
	return func(ctx context.Context, candidateID string) (interface{}, error) {
		providerID, modelID, ok := strings.Cut(candidateID, "/")
		if !ok {
			return nil, fmt.Errorf("malformed candidate id %q", candidateID)
		}

		cfg, found := c.providers[providerID]
		if !found {
			return nil, fmt.Errorf("no configured provider %q for candidate %q", providerID, candidateID)
		}

		headers := map[string]string{"Content-Type": "application/json"}
		if cfg.APIKey != "" {
			headers["Authorization"] = "Bearer " + cfg.APIKey
		}

		req := chatRequest{
			Model:    modelID,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}

		var resp chatResponse
		url := strings.TrimSuffix(cfg.BaseURL, "/") + "/chat/completions"
		if err := httpclient.SendRequest(ctx, c.client, "POST", url, headers, req, &resp); err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("provider %q returned no choices", providerID)
		}

		return &Completion{Model: candidateID, Content: resp.Choices[0].Message.Content}, nil
	}
}
