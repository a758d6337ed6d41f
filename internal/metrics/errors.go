package metrics

import (
	"fmt"
	"sort"
	"strings"
)

// UnsupportedMetricsError is returned when an explicit metric request names
// metrics that do not exist. The run aborts before any scoring.
type UnsupportedMetricsError struct {
	Names []string
}

func (e *UnsupportedMetricsError) Error() string {
	offending := make([]string, len(e.Names))
	copy(offending, e.Names)
	sort.Strings(offending)
	return fmt.Sprintf("unsupported metrics: %s. Supported metrics: %s",
		strings.Join(offending, ", "), strings.Join(SupportedNames(), ", "))
}

// MissingFieldsError is returned when an explicitly requested metric lacks
// its required fields in at least one row of a group. The run aborts: this is
// a configuration error, not a partial-failure condition.
type MissingFieldsError struct {
	Names []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("requested metrics are missing required fields in at least one row: %s",
		strings.Join(e.Names, ", "))
}
