package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elcasillas/DealUpdates/internal/ingest"
)

// Client talks to the remote note-summarization service. It implements
// ingest.Summarizer. Requests are batched by the caller; the client never
// retries — degradation is the pipeline's job.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type summarizeRequest struct {
	Deals []ingest.SummaryRequest `json:"deals"`
}

type summarizeResponse struct {
	Summaries map[string]ingest.SummaryResult `json:"summaries"`
}

// Summarize posts one batch of {key, content_hash, notes} tuples and
// returns the per-key summaries. Entries missing from the response are the
// caller's problem; they fall back to the local summary.
func (c *Client) Summarize(ctx context.Context, reqs []ingest.SummaryRequest) (map[string]ingest.SummaryResult, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	jsonData, err := json.Marshal(summarizeRequest{Deals: reqs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/summaries", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summarizer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summarizer returned status: %d", resp.StatusCode)
	}

	var parsed summarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return parsed.Summaries, nil
}
