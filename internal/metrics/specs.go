package metrics

import (
	"sort"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
)

// Built-in metric names.
const (
	ResponseRelevancy  = "response_relevancy"
	Faithfulness       = "faithfulness"
	ContextRecall      = "context_recall"
	FactualCorrectness = "factual_correctness"
	SemanticSimilarity = "semantic_similarity"
)

// Spec identifies a metric and the row fields it needs. Required field sets
// are fixed at compile time.
type Spec struct {
	Name           string
	RequiredFields []string
}

// specs lists the built-in metrics in canonical declaration order. Auto
// selection falls back to this order when no group preference applies.
var specs = []Spec{
	{ResponseRelevancy, []string{models.FieldUserInput, models.FieldResponse}},
	{Faithfulness, []string{models.FieldUserInput, models.FieldResponse, models.FieldRetrievedContexts}},
	{ContextRecall, []string{models.FieldUserInput, models.FieldReference, models.FieldRetrievedContexts}},
	{FactualCorrectness, []string{models.FieldUserInput, models.FieldResponse, models.FieldReference}},
	{SemanticSimilarity, []string{models.FieldResponse, models.FieldReference}},
}

// Specs returns the built-in metric specs in canonical order.
func Specs() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup returns the spec for name.
func Lookup(name string) (Spec, bool) {
	for _, spec := range specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}

// SupportedNames returns the known metric names sorted alphabetically,
// for error messages.
func SupportedNames() []string {
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	sort.Strings(names)
	return names
}
