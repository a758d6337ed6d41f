package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/aggregator"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/api"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/executor"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/metrics"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
	"github.com/rs/zerolog"
)

// stubScorer returns a fixed score for every row.
type stubScorer struct {
	score float64
}

func (s *stubScorer) Score(ctx context.Context, rows []models.Row, spec metrics.Spec) ([]*float64, error) {
	scores := make([]*float64, len(rows))
	for i := range rows {
		value := s.score
		scores[i] = &value
	}
	return scores, nil
}

func setupTestAPI() *restful.Container {
	logger := zerolog.Nop()

	exec := executor.NewExecutor(
		metrics.NewSelector(nil),
		&stubScorer{score: 0.8},
		aggregator.NewAggregator(&logger),
		&logger,
	)

	container := restful.NewContainer()
	api.RegisterRoutes(container, api.NewHandler(exec, &logger))
	return container
}

func TestAPI_Health(t *testing.T) {
	container := setupTestAPI()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", recorder.Code)
	}

	var response api.HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got '%s'", response.Status)
	}
}

func TestAPI_ListMetrics(t *testing.T) {
	container := setupTestAPI()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	var listed []api.MetricInfo
	if err := json.Unmarshal(recorder.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(listed) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(listed))
	}
}

func TestAPI_Evaluate(t *testing.T) {
	container := setupTestAPI()

	body, _ := json.Marshal(api.EvaluateRequest{
		Rows: []models.Row{
			{
				"category":   "qa",
				"user_input": "What is Go?",
				"response":   "Go is a programming language.",
				"reference":  "Go is a language from Google.",
			},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var report models.RunReport
	if err := json.Unmarshal(recorder.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if report.RowCount != 1 {
		t.Errorf("expected 1 row, got %d", report.RowCount)
	}
	group, ok := report.Groups["qa"]
	if !ok {
		t.Fatal("missing qa group in report")
	}
	if got := group.Summary[metrics.SemanticSimilarity]; got != 0.8 {
		t.Errorf("expected mean 0.8, got %v", got)
	}
}

func TestAPI_Evaluate_BadRequests(t *testing.T) {
	container := setupTestAPI()

	tests := []struct {
		name string
		body api.EvaluateRequest
	}{
		{
			name: "empty dataset",
			body: api.EvaluateRequest{Rows: nil},
		},
		{
			name: "unsupported metric",
			body: api.EvaluateRequest{
				Rows:    []models.Row{{"user_input": "q", "response": "a"}},
				Metrics: []string{"bleu"},
			},
		},
		{
			name: "requested metric missing fields",
			body: api.EvaluateRequest{
				Rows:    []models.Row{{"user_input": "q", "response": "a"}},
				Metrics: []string{metrics.ContextRecall},
			},
		},
		{
			name: "invalid grouping mode",
			body: api.EvaluateRequest{
				Rows:    []models.Row{{"user_input": "q", "response": "a"}},
				GroupBy: "topic",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			container.ServeHTTP(recorder, req)

			if recorder.Code == http.StatusOK {
				t.Errorf("expected a client error, got 200: %s", recorder.Body.String())
			}
		})
	}
}
