package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
	"github.com/rs/zerolog"
)

// Output formats supported by the Writer.
const (
	FormatJSON    = "json"
	FormatSummary = "summary"
)

// Writer serializes a finished run report.
type Writer struct {
	out    io.Writer
	format string
	logger *zerolog.Logger
}

func NewWriter(out io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	if format != FormatJSON && format != FormatSummary {
		return nil, fmt.Errorf("unsupported output format %q: must be %q or %q", format, FormatJSON, FormatSummary)
	}
	return &Writer{
		out:    out,
		format: format,
		logger: logger,
	}, nil
}

func (w *Writer) Write(report *models.RunReport) error {
	switch w.format {
	case FormatSummary:
		return WriteSummary(w.out, report)
	default:
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize report: %w", err)
		}
		encoded = append(encoded, '\n')
		if _, err := w.out.Write(encoded); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}
}

// WriteSummary renders a short human-readable digest of the report: per
// group, the row count, selected metrics, mean scores, and failures.
func WriteSummary(out io.Writer, report *models.RunReport) error {
	fmt.Fprintf(out, "rows: %d\n", report.RowCount)
	fmt.Fprintf(out, "group by: %s\n", report.GroupBy)
	if report.Provider != "" {
		fmt.Fprintf(out, "provider: %s\n", report.Provider)
	}

	for _, name := range report.GroupOrder {
		group, ok := report.Groups[name]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "[group:%s] rows=%d\n", name, group.RowCount)

		selected := "none"
		if len(group.SelectedMetrics) > 0 {
			selected = strings.Join(group.SelectedMetrics, ", ")
		}
		fmt.Fprintf(out, "[group:%s] selected metrics: %s\n", name, selected)

		for _, metric := range group.SelectedMetrics {
			if value, ok := group.Summary[metric]; ok {
				fmt.Fprintf(out, "[group:%s] %s: %.4f\n", name, metric, value)
			}
		}
		for metric, message := range group.MetricFailures {
			fmt.Fprintf(out, "[group:%s] metric failed: %s: %s\n", name, metric, message)
		}
	}
	return nil
}
