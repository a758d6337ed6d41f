package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/executor"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/grouping"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/metrics"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
)

// EvaluateInput is the MCP tool input schema for dataset evaluation.
type EvaluateInput struct {
	Rows    []models.Row `json:"rows" jsonschema:"dataset rows to evaluate, each a JSON object"`
	GroupBy string       `json:"group_by,omitempty" jsonschema:"grouping mode: category or none (default category)"`
	Metrics []string     `json:"metrics,omitempty" jsonschema:"explicit metric list; empty auto-selects from available fields"`
}

// ListMetricsInput is the (empty) input schema for the metric listing tool.
type ListMetricsInput struct{}

// MetricInfo describes one supported metric.
type MetricInfo struct {
	Name           string   `json:"name"`
	RequiredFields []string `json:"required_fields"`
}

// MetricList is the output of the metric listing tool.
type MetricList struct {
	Metrics []MetricInfo `json:"metrics"`
}

// NewEvaluateHandler returns a tool handler that runs the evaluation
// pipeline. Pass the returned function to mcp.AddTool.
func NewEvaluateHandler(exec *executor.Executor) func(context.Context, *mcp.CallToolRequest, EvaluateInput) (*mcp.CallToolResult, *models.RunReport, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvaluateInput) (*mcp.CallToolResult, *models.RunReport, error) {
		groupBy := input.GroupBy
		if groupBy == "" {
			groupBy = grouping.ModeCategory
		}

		report, err := exec.Execute(ctx, input.Rows, executor.Options{
			GroupBy:   groupBy,
			Requested: input.Metrics,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, report, nil
	}
}

// NewListMetricsHandler returns a tool handler that lists the supported
// metrics and their required row fields.
func NewListMetricsHandler() func(context.Context, *mcp.CallToolRequest, ListMetricsInput) (*mcp.CallToolResult, MetricList, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListMetricsInput) (*mcp.CallToolResult, MetricList, error) {
		specs := metrics.Specs()
		list := MetricList{Metrics: make([]MetricInfo, 0, len(specs))}
		for _, spec := range specs {
			list.Metrics = append(list.Metrics, MetricInfo{
				Name:           spec.Name,
				RequiredFields: spec.RequiredFields,
			})
		}
		return nil, list, nil
	}
}
