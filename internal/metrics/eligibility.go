package metrics

import (
	"strings"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
)

// Eligible returns the metrics that can run on the group, in canonical spec
// order. A metric qualifies only when every row supplies a usable value for
// every required field: one row missing a field disqualifies the metric for
// the whole group. Pure function over the group snapshot; call it before any
// score field is appended.
func Eligible(rows []models.Row) []string {
	var eligible []string
	for _, spec := range specs {
		if groupSatisfies(rows, spec.RequiredFields) {
			eligible = append(eligible, spec.Name)
		}
	}
	return eligible
}

func groupSatisfies(rows []models.Row, fields []string) bool {
	for _, row := range rows {
		for _, field := range fields {
			if !row.HasValue(field) {
				return false
			}
		}
	}
	return true
}

// NormalizeGroupName canonicalizes a group's display name for preference
// lookup only; the reported group name is never altered.
func NormalizeGroupName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}
