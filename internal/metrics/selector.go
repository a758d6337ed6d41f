package metrics

import (
	"slices"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
)

// Preferences maps a normalized group name to an ordered list of preferred
// metrics for auto-selection. A plain data table so new group conventions can
// be added without touching selection logic.
type Preferences map[string][]string

// DefaultPreferences returns the built-in group preference table.
func DefaultPreferences() Preferences {
	return Preferences{
		"qa":          {SemanticSimilarity, FactualCorrectness},
		"work-search": {SemanticSimilarity},
		"work":        {SemanticSimilarity},
	}
}

// Selector reconciles explicit metric requests, per-group preferences, and
// field eligibility.
type Selector struct {
	preferences Preferences
}

// NewSelector builds a selector with the given preference table; nil means
// the built-in defaults.
func NewSelector(preferences Preferences) *Selector {
	if preferences == nil {
		preferences = DefaultPreferences()
	}
	return &Selector{preferences: preferences}
}

// Select decides which metrics to score for a group.
//
// With an explicit request, every requested name must be a known metric and
// must be eligible for this group; the request is then returned verbatim.
// Without a request, the group's preference list is filtered down to eligible
// metrics and used when non-empty; otherwise the full eligible set is
// selected. The eligible set is always returned for reporting. An empty
// selection is a valid outcome, not an error.
func (s *Selector) Select(rows []models.Row, requested []string, groupName string) (selected, eligible []string, err error) {
	eligible = Eligible(rows)

	if len(requested) > 0 {
		var unsupported []string
		for _, name := range requested {
			if _, ok := Lookup(name); !ok {
				unsupported = append(unsupported, name)
			}
		}
		if len(unsupported) > 0 {
			return nil, nil, &UnsupportedMetricsError{Names: unsupported}
		}

		var missing []string
		for _, name := range requested {
			if !slices.Contains(eligible, name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return nil, nil, &MissingFieldsError{Names: missing}
		}

		return requested, eligible, nil
	}

	if preferred, ok := s.preferences[NormalizeGroupName(groupName)]; ok {
		var filtered []string
		for _, name := range preferred {
			if slices.Contains(eligible, name) {
				filtered = append(filtered, name)
			}
		}
		if len(filtered) > 0 {
			return filtered, eligible, nil
		}
	}

	return eligible, eligible, nil
}
