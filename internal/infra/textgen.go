package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// textgenRequest is sent to the text-generation sidecar, which talks to the
// actual completion model and returns plain marketing copy.
type textgenRequest struct {
	Prompt string `json:"prompt"`
}

type textgenResponse struct {
	Text string `json:"text"`
}

// TextGenClient asks the sidecar for product description copy. The circuit
// breaker keeps a flaky sidecar from slowing down product management: when
// open, GenerateDescription fast-fails and the caller degrades to an empty
// description.
type TextGenClient struct {
	sidecarURL string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewTextGenClient(sidecarURL string) *TextGenClient {
	return &TextGenClient{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cb:         NewCircuitBreaker(DefaultCBConfig()),
	}
}

// BreakerState exposes the circuit state for the health endpoint.
func (c *TextGenClient) BreakerState() string { return c.cb.State().String() }

// GenerateDescription returns generated marketing copy for a product.
func (c *TextGenClient) GenerateDescription(ctx context.Context, name, category string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short, appealing product description (max 2 sentences, Spanish) for a corner-store product named %q", name)
	if category != "" {
		prompt += fmt.Sprintf(" in the %q category", category)
	}

	var text string
	err := c.cb.Execute(func() error {
		body, err := json.Marshal(textgenRequest{Prompt: prompt})
		if err != nil {
			return fmt.Errorf("textgen: marshal payload: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sidecarURL+"/generate", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("textgen: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("textgen: sidecar unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("textgen: sidecar returned %d", resp.StatusCode)
		}

		var result textgenResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("textgen: decode response: %w", err)
		}
		text = result.Text
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
