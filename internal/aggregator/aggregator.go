package aggregator

import (
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
	"github.com/rs/zerolog"
)

// Aggregator assembles finished group reports into the run-level report:
// global counts, per-group summary and failure maps, and the flattened row
// list with group tags.
type Aggregator struct {
	logger *zerolog.Logger
}

func NewAggregator(logger *zerolog.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Build produces the run report. Group iteration follows groupOrder, and
// rows keep their original order within each group; every flattened row is
// tagged with its group key. The global row count is the sum of the group
// row counts, which always equals the input row count.
func (a *Aggregator) Build(groupOrder []string, groups map[string]*models.GroupReport) *models.RunReport {
	report := &models.RunReport{
		SummaryByGroup:  make(map[string]map[string]float64, len(groups)),
		FailuresByGroup: make(map[string]map[string]string, len(groups)),
		Groups:          groups,
		GroupOrder:      groupOrder,
		GroupCount:      len(groupOrder),
		Rows:            []models.Row{},
	}

	for _, key := range groupOrder {
		group, ok := groups[key]
		if !ok {
			continue
		}

		report.RowCount += group.RowCount
		report.SummaryByGroup[key] = group.Summary
		report.FailuresByGroup[key] = group.MetricFailures

		for _, row := range group.Rows {
			row[models.FieldEvaluationGroup] = key
			report.Rows = append(report.Rows, row)
		}
	}

	a.logger.Info().
		Int("rows", report.RowCount).
		Int("groups", report.GroupCount).
		Msg("report assembled")
	return report
}
