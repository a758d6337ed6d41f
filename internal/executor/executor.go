package executor

import (
	"context"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/batch"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/grouping"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/metrics"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
	"github.com/rs/zerolog"
)

// GroupFailureKey is the sentinel failure-map key used when a group ends up
// with no metric to score.
const GroupFailureKey = "_group"

const noMetricsMessage = "No compatible metrics could be selected from this group. " +
	"Expected fields such as user_input, response, reference, and retrieved_contexts."

// Scorer computes one metric over an ordered batch of rows and returns one
// numeric-or-null score per row, in row order. A returned error fails the
// whole metric for the group.
type Scorer interface {
	Score(ctx context.Context, rows []models.Row, spec metrics.Spec) ([]*float64, error)
}

// Aggregator assembles per-group reports into the final run report.
type Aggregator interface {
	Build(groupOrder []string, groups map[string]*models.GroupReport) *models.RunReport
}

// Options configure a single evaluation run.
type Options struct {
	// GroupBy is the grouping mode: grouping.ModeCategory or grouping.ModeNone.
	GroupBy string
	// Requested forces an explicit metric list; empty means auto-select.
	Requested []string
}

// Executor runs the evaluation pipeline: group, select, score, aggregate.
// Groups are processed one at a time in insertion order, and metrics one at a
// time in selection order; the scorer call dominates latency, not this loop.
type Executor struct {
	selector   *metrics.Selector
	scorer     Scorer
	aggregator Aggregator
	logger     *zerolog.Logger
}

func NewExecutor(selector *metrics.Selector, scorer Scorer, aggregator Aggregator, logger *zerolog.Logger) *Executor {
	return &Executor{
		selector:   selector,
		scorer:     scorer,
		aggregator: aggregator,
		logger:     logger,
	}
}

type groupPlan struct {
	selected []string
	eligible []string
}

// Execute evaluates the batch and returns the assembled report.
//
// Configuration errors (empty batch, invalid grouping mode, unsupported or
// ineligible requested metrics) abort the run with no partial report.
// Eligibility and selection are finalized for every group before any scoring
// starts; scoring failures are captured per metric inside the report and
// never abort the run.
func (e *Executor) Execute(ctx context.Context, rows []models.Row, opts Options) (*models.RunReport, error) {
	if len(rows) == 0 {
		return nil, batch.ErrEmptyDataset
	}
	if err := grouping.ValidateMode(opts.GroupBy); err != nil {
		return nil, err
	}

	groups := grouping.GroupRows(rows, opts.GroupBy)
	e.logger.Info().
		Int("rows", len(rows)).
		Int("groups", groups.Len()).
		Str("group_by", opts.GroupBy).
		Msg("starting evaluation run")

	plans := make(map[string]groupPlan, groups.Len())
	for _, key := range groups.Keys() {
		selected, eligible, err := e.selector.Select(groups.Rows(key), opts.Requested, key)
		if err != nil {
			return nil, err
		}
		plans[key] = groupPlan{selected: selected, eligible: eligible}
	}

	reports := make(map[string]*models.GroupReport, groups.Len())
	for _, key := range groups.Keys() {
		plan := plans[key]
		groupRows := groups.Rows(key)

		if len(plan.selected) == 0 {
			e.logger.Warn().Str("group", key).Msg("no compatible metrics for group")
			reports[key] = &models.GroupReport{
				RowCount:         len(groupRows),
				SelectedMetrics:  []string{},
				AvailableMetrics: emptyIfNil(plan.eligible),
				Summary:          map[string]float64{},
				MetricFailures:   map[string]string{GroupFailureKey: noMetricsMessage},
				Rows:             normalizeRows(groupRows),
			}
			continue
		}

		scored, summary, failures := e.scoreGroup(ctx, key, groupRows, plan.selected)
		reports[key] = &models.GroupReport{
			RowCount:         len(groupRows),
			SelectedMetrics:  plan.selected,
			AvailableMetrics: emptyIfNil(plan.eligible),
			Summary:          summary,
			MetricFailures:   failures,
			Rows:             scored,
		}
	}

	report := e.aggregator.Build(groups.Keys(), reports)
	report.GroupBy = opts.GroupBy

	e.logger.Info().
		Int("rows", report.RowCount).
		Int("groups", report.GroupCount).
		Msg("evaluation run complete")
	return report, nil
}

// scoreGroup scores every selected metric over the group's full row set.
// One metric failing never aborts the others: the failure message is recorded
// under the metric name and the metric's field is set to null on every row.
func (e *Executor) scoreGroup(ctx context.Context, group string, rows []models.Row, selected []string) ([]models.Row, map[string]float64, map[string]string) {
	scored := normalizeRows(rows)
	summary := make(map[string]float64)
	failures := make(map[string]string)

	for _, name := range selected {
		spec, ok := metrics.Lookup(name)
		if !ok {
			// Selection already validated names; reaching this is a bug.
			failures[name] = "unknown metric"
			continue
		}

		scores, err := e.scorer.Score(ctx, rows, spec)
		if err != nil {
			e.logger.Warn().
				Str("group", group).
				Str("metric", name).
				Err(err).
				Msg("metric scoring failed")
			failures[name] = err.Error()
			for _, row := range scored {
				row[name] = nil
			}
			continue
		}

		sum := 0.0
		count := 0
		for i, score := range scores {
			if i >= len(scored) {
				break
			}
			if score == nil {
				scored[i][name] = nil
				continue
			}
			scored[i][name] = *score
			sum += *score
			count++
		}

		// A metric with no numeric result is omitted from the summary
		// rather than reported as zero.
		if count > 0 {
			summary[name] = sum / float64(count)
			e.logger.Info().
				Str("group", group).
				Str("metric", name).
				Float64("mean", summary[name]).
				Int("scored_rows", count).
				Msg("metric scored")
		}
	}

	return scored, summary, failures
}

func normalizeRows(rows []models.Row) []models.Row {
	out := make([]models.Row, len(rows))
	for i, row := range rows {
		out[i] = batch.NormalizeRow(row)
	}
	return out
}

func emptyIfNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
