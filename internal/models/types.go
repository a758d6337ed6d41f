package models

import "strings"

// Row is one evaluation case as decoded from JSON: user input, model response,
// optional reference answer, optional retrieved contexts, plus arbitrary
// metadata. Rows are read-only after loading except for appended metric score
// fields and the evaluation_group tag.
type Row map[string]any

// Well-known row fields.
const (
	FieldCategory          = "category"
	FieldMetadata          = "metadata"
	FieldUserInput         = "user_input"
	FieldResponse          = "response"
	FieldReference         = "reference"
	FieldRetrievedContexts = "retrieved_contexts"

	// FieldEvaluationGroup tags every reported row with its group key.
	FieldEvaluationGroup = "evaluation_group"
)

// HasValue reports whether the row carries a usable value for key.
// Nil values, strings that are empty after trimming, and empty lists do not
// count; everything else does, including zero numbers and false booleans.
func (r Row) HasValue(key string) bool {
	value, ok := r[key]
	if !ok || value == nil {
		return false
	}

	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	default:
		return true
	}
}

// String returns the row value for key when it is a string, or "".
func (r Row) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// StringList returns the row value for key coerced to a list of strings.
// Non-string elements are skipped.
func (r Row) StringList(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// GroupReport is the evaluation outcome for one group of rows.
// A selected metric appears in exactly one of Summary or MetricFailures.
type GroupReport struct {
	RowCount         int                `json:"row_count"`
	SelectedMetrics  []string           `json:"selected_metrics"`
	AvailableMetrics []string           `json:"auto_available_metrics"`
	Summary          map[string]float64 `json:"summary"`
	MetricFailures   map[string]string  `json:"metric_failures"`
	Rows             []Row              `json:"rows"`
}

// RunReport is the full evaluation report emitted at the end of a run.
type RunReport struct {
	InputPath       string                        `json:"input_path,omitempty"`
	Provider        string                        `json:"provider,omitempty"`
	Region          string                        `json:"region,omitempty"`
	LLMModel        string                        `json:"llm_model,omitempty"`
	EmbeddingModel  string                        `json:"embedding_model,omitempty"`
	RowCount        int                           `json:"row_count"`
	GroupBy         string                        `json:"group_by"`
	GroupCount      int                           `json:"group_count"`
	SummaryByGroup  map[string]map[string]float64 `json:"summary_by_group"`
	FailuresByGroup map[string]map[string]string  `json:"metric_failures_by_group"`
	Groups          map[string]*GroupReport       `json:"groups"`
	Rows            []Row                         `json:"rows"`

	// GroupOrder preserves first-seen group order for iteration and printing.
	GroupOrder []string `json:"-"`
}
