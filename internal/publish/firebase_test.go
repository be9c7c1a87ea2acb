package publish

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"divradar/internal/config"
	"divradar/internal/strategy"
)

func testResult() strategy.RankedResult {
	return strategy.RankedResult{
		Opportunities: []strategy.Opportunity{
			{
				Instrument:        "0056",
				Action:            strategy.ActionBuy,
				EventDate:         "2025-07-15",
				DaysFromEvent:     1,
				Confidence:        strategy.ConfidenceHigh,
				ExpectedReturnPct: 9.43,
				SuccessRate:       0.625,
				Reason:            "day 1 after ex-dividend, entry window open through day 7",
			},
		},
		Summary: strategy.Summary{BuyCount: 1, HighConfidenceCount: 1},
	}
}

func TestPublishRun_WritesLatestAndHistory(t *testing.T) {
	bodies := make(map[string][]byte)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		bodies[r.URL.Path] = body
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPublisher(config.PublishConfig{
		Enabled: true,
		BaseURL: srv.URL,
		Timeout: config.Duration{Duration: 5 * time.Second},
	})
	if !p.Enabled() {
		t.Fatal("publisher should be enabled")
	}

	if err := p.PublishRun(context.Background(), "2025-07-16", testResult()); err != nil {
		t.Fatal(err)
	}

	latest, ok := bodies["/latest_analysis.json"]
	if !ok {
		t.Fatalf("latest_analysis not written, paths: %v", keys(bodies))
	}
	if _, ok := bodies["/analysis_history/2025-07-16.json"]; !ok {
		t.Fatalf("analysis history not written, paths: %v", keys(bodies))
	}

	var payload struct {
		GeneratedFor  string                 `json:"generated_for"`
		Summary       strategy.Summary       `json:"summary"`
		Opportunities []strategy.Opportunity `json:"opportunities"`
	}
	if err := json.Unmarshal(latest, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.GeneratedFor != "2025-07-16" {
		t.Errorf("unexpected generated_for %q", payload.GeneratedFor)
	}
	if payload.Summary.BuyCount != 1 || len(payload.Opportunities) != 1 {
		t.Errorf("payload content wrong: %+v", payload)
	}
}

func TestPublishRun_RemoteErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewPublisher(config.PublishConfig{
		Enabled: true,
		BaseURL: srv.URL,
		Timeout: config.Duration{Duration: 5 * time.Second},
	})

	if err := p.PublishRun(context.Background(), "2025-07-16", testResult()); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestNewPublisher_DisabledWithoutURL(t *testing.T) {
	p := NewPublisher(config.PublishConfig{Enabled: true, BaseURL: ""})
	if p.Enabled() {
		t.Error("publisher with no base URL must be disabled")
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
