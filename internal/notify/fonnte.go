package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultFonnteURL is the production send endpoint.
const DefaultFonnteURL = "https://api.fonnte.com/send"

// FonnteClient implements Gateway using the Fonnte HTTP API.
// The API token is per-shop and supplied per call, not held by the client.
type FonnteClient struct {
	baseURL    string
	httpClient *http.Client
}

type fonnteResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason"`
}

// NewFonnteClient creates a Fonnte gateway client. baseURL is overridable
// for tests; pass "" for the production endpoint.
func NewFonnteClient(baseURL string) *FonnteClient {
	if baseURL == "" {
		baseURL = DefaultFonnteURL
	}
	return &FonnteClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send posts one message to the gateway.
func (c *FonnteClient) Send(ctx context.Context, phone, message, apiToken string) error {
	form := url.Values{}
	form.Set("target", phone)
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fonnte API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result fonnteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !result.Status {
		return fmt.Errorf("fonnte rejected message: %s", result.Reason)
	}

	return nil
}
