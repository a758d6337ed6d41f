package aggregator

import (
	"reflect"
	"testing"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestBuild(t *testing.T) {
	groups := map[string]*models.GroupReport{
		"qa": {
			RowCount:        2,
			SelectedMetrics: []string{"semantic_similarity"},
			Summary:         map[string]float64{"semantic_similarity": 0.75},
			MetricFailures:  map[string]string{},
			Rows: []models.Row{
				{"id": "q1"},
				{"id": "q2"},
			},
		},
		"work": {
			RowCount:        1,
			SelectedMetrics: []string{},
			Summary:         map[string]float64{},
			MetricFailures:  map[string]string{"_group": "no compatible metrics"},
			Rows: []models.Row{
				{"id": "w1"},
			},
		},
	}

	report := NewAggregator(testLogger()).Build([]string{"qa", "work"}, groups)

	if report.RowCount != 3 {
		t.Errorf("expected row count 3, got %d", report.RowCount)
	}
	if report.GroupCount != 2 {
		t.Errorf("expected group count 2, got %d", report.GroupCount)
	}

	if got := report.SummaryByGroup["qa"]["semantic_similarity"]; got != 0.75 {
		t.Errorf("expected qa summary 0.75, got %v", got)
	}
	// Every group appears in the run-level maps, failures included.
	if _, ok := report.SummaryByGroup["work"]; !ok {
		t.Error("work group missing from summary_by_group")
	}
	if got := report.FailuresByGroup["work"]["_group"]; got != "no compatible metrics" {
		t.Errorf("expected work failure carried over, got %v", got)
	}
}

func TestBuildFlattensRowsInGroupOrder(t *testing.T) {
	groups := map[string]*models.GroupReport{
		"b": {RowCount: 1, Rows: []models.Row{{"id": "b1"}}},
		"a": {RowCount: 2, Rows: []models.Row{{"id": "a1"}, {"id": "a2"}}},
	}

	report := NewAggregator(testLogger()).Build([]string{"b", "a"}, groups)

	var ids []string
	var tags []string
	for _, row := range report.Rows {
		ids = append(ids, row["id"].(string))
		tags = append(tags, row[models.FieldEvaluationGroup].(string))
	}

	if !reflect.DeepEqual(ids, []string{"b1", "a1", "a2"}) {
		t.Errorf("rows out of order: %v", ids)
	}
	if !reflect.DeepEqual(tags, []string{"b", "a", "a"}) {
		t.Errorf("unexpected group tags: %v", tags)
	}
}

func TestBuildEmptyOrder(t *testing.T) {
	report := NewAggregator(testLogger()).Build(nil, map[string]*models.GroupReport{})

	if report.RowCount != 0 || report.GroupCount != 0 {
		t.Errorf("expected zero counts, got rows=%d groups=%d", report.RowCount, report.GroupCount)
	}
	if report.Rows == nil {
		t.Error("expected empty row slice, got nil")
	}
}
