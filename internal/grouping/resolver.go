package grouping

import (
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
)

// Grouping modes accepted by the pipeline.
const (
	ModeCategory = "category"
	ModeNone     = "none"
)

// Reserved group keys.
const (
	KeyAll           = "all"
	KeyUncategorized = "uncategorized"
)

// ValidateMode rejects unknown grouping modes before a run starts.
func ValidateMode(mode string) error {
	if mode != ModeCategory && mode != ModeNone {
		return fmt.Errorf("invalid grouping mode %q: must be %q or %q", mode, ModeCategory, ModeNone)
	}
	return nil
}

// ResolveGroup computes the group key for a single row. With grouping
// disabled every row lands in the "all" group. Otherwise the trimmed top-level
// category wins, then the trimmed metadata.category, then "uncategorized".
// Pure function: the row is never modified.
func ResolveGroup(row models.Row, mode string) string {
	if mode == ModeNone {
		return KeyAll
	}

	if category, ok := row[models.FieldCategory].(string); ok {
		if trimmed := strings.TrimSpace(category); trimmed != "" {
			return trimmed
		}
	}

	if metadata, ok := row[models.FieldMetadata].(map[string]any); ok {
		if nested, ok := metadata[models.FieldCategory].(string); ok {
			if trimmed := strings.TrimSpace(nested); trimmed != "" {
				return trimmed
			}
		}
	}

	return KeyUncategorized
}

// Groups is an ordered partition of rows by group key. Key order is
// first-seen insertion order, and rows keep their original order within
// each group.
type Groups struct {
	keys []string
	rows map[string][]models.Row
}

// GroupRows partitions rows by their resolved group key.
func GroupRows(rows []models.Row, mode string) *Groups {
	g := &Groups{rows: make(map[string][]models.Row)}
	for _, row := range rows {
		key := ResolveGroup(row, mode)
		if _, seen := g.rows[key]; !seen {
			g.keys = append(g.keys, key)
		}
		g.rows[key] = append(g.rows[key], row)
	}
	return g
}

// Keys returns the group keys in insertion order.
func (g *Groups) Keys() []string {
	return g.keys
}

// Rows returns the rows belonging to key.
func (g *Groups) Rows(key string) []models.Row {
	return g.rows[key]
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	return len(g.keys)
}
