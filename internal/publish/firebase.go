// Package publish pushes ranked results to a Firebase Realtime Database
// over its REST interface. Publishing is best-effort: the analysis pipeline
// never fails because the remote store is unreachable.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"divradar/internal/config"
	"divradar/internal/strategy"
)

// Publisher writes analysis results to the remote store. The RTDB REST
// convention is PUT {base}/{path}.json with a JSON body.
type Publisher struct {
	baseURL string
	client  *http.Client
	enabled bool
}

func NewPublisher(cfg config.PublishConfig) *Publisher {
	return &Publisher{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout.Duration},
		enabled: cfg.Enabled && cfg.BaseURL != "",
	}
}

func (p *Publisher) Enabled() bool { return p.enabled }

type runPayload struct {
	GeneratedFor  string                 `json:"generated_for"`
	GeneratedAt   string                 `json:"generated_at"`
	Summary       strategy.Summary       `json:"summary"`
	Opportunities []strategy.Opportunity `json:"opportunities"`
}

// PublishRun writes the ranked result to latest_analysis and appends it to
// the per-date history node.
func (p *Publisher) PublishRun(ctx context.Context, evaluatedFor string, result strategy.RankedResult) error {
	payload := runPayload{
		GeneratedFor:  evaluatedFor,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Summary:       result.Summary,
		Opportunities: result.Opportunities,
	}

	if err := p.put(ctx, "latest_analysis", payload); err != nil {
		return fmt.Errorf("publishing latest analysis: %w", err)
	}
	if err := p.put(ctx, "analysis_history/"+evaluatedFor, payload); err != nil {
		return fmt.Errorf("publishing analysis history: %w", err)
	}
	return nil
}

func (p *Publisher) put(ctx context.Context, path string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s.json", p.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote store returned %s for %s", resp.Status, path)
	}
	return nil
}
