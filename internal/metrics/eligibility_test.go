package metrics

import (
	"reflect"
	"testing"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
)

func fullRow() models.Row {
	return models.Row{
		"user_input":         "What is Go?",
		"response":           "Go is a programming language.",
		"reference":          "Go is a statically typed language from Google.",
		"retrieved_contexts": []any{"Go documentation"},
	}
}

func TestEligibleAllFields(t *testing.T) {
	got := Eligible([]models.Row{fullRow(), fullRow()})

	want := []string{
		ResponseRelevancy,
		Faithfulness,
		ContextRecall,
		FactualCorrectness,
		SemanticSimilarity,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEligibleOneRowDisqualifies(t *testing.T) {
	partial := fullRow()
	delete(partial, "reference")

	got := Eligible([]models.Row{fullRow(), partial})

	// Metrics needing reference drop out for the whole group.
	want := []string{ResponseRelevancy, Faithfulness}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEligibleUsabilityRules(t *testing.T) {
	tests := []struct {
		name string
		row  models.Row
		want []string
	}{
		{
			name: "blank string is not usable",
			row: models.Row{
				"user_input": "q",
				"response":   "   ",
			},
			want: nil,
		},
		{
			name: "empty context list is not usable",
			row: models.Row{
				"user_input":         "q",
				"response":           "a",
				"retrieved_contexts": []any{},
			},
			want: []string{ResponseRelevancy},
		},
		{
			name: "nil value is not usable",
			row: models.Row{
				"user_input": "q",
				"response":   nil,
			},
			want: nil,
		},
		{
			name: "zero and false are usable",
			row: models.Row{
				"user_input": float64(0),
				"response":   false,
			},
			want: []string{ResponseRelevancy},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Eligible([]models.Row{tt.row})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEligibleIgnoresAppendedScores(t *testing.T) {
	row := fullRow()
	first := Eligible([]models.Row{row})

	// Appending a score field must not change what qualifies.
	row[SemanticSimilarity] = 0.9
	second := Eligible([]models.Row{row})

	if !reflect.DeepEqual(first, second) {
		t.Errorf("eligibility changed after scoring: %v vs %v", first, second)
	}
}

func TestNormalizeGroupName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"QA", "qa"},
		{" Work_Search ", "work-search"},
		{"work", "work"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeGroupName(tt.in); got != tt.want {
			t.Errorf("NormalizeGroupName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
