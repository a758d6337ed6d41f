package api

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/batch"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/executor"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/grouping"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/metrics"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
	"github.com/rs/zerolog"
)

// EvaluateRequest is the POST body for a dataset evaluation.
type EvaluateRequest struct {
	// Rows is the dataset to evaluate; each row is a JSON object.
	Rows []models.Row `json:"rows"`
	// GroupBy is "category" (default) or "none".
	GroupBy string `json:"group_by,omitempty"`
	// Metrics forces an explicit metric list; empty means auto-select.
	Metrics []string `json:"metrics,omitempty"`
}

// MetricInfo describes one supported metric.
type MetricInfo struct {
	Name           string   `json:"name"`
	RequiredFields []string `json:"required_fields"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Handler struct {
	executor *executor.Executor
	logger   *zerolog.Logger
}

func NewHandler(exec *executor.Executor, logger *zerolog.Logger) *Handler {
	return &Handler{
		executor: exec,
		logger:   logger,
	}
}

// POST /api/v1/evaluate
// Body: EvaluateRequest
// Returns: models.RunReport
func (h *Handler) Evaluate(req *restful.Request, resp *restful.Response) {
	var evalRequest EvaluateRequest
	if err := req.ReadEntity(&evalRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	groupBy := evalRequest.GroupBy
	if groupBy == "" {
		groupBy = grouping.ModeCategory
	}

	h.logger.Info().
		Int("rows", len(evalRequest.Rows)).
		Str("group_by", groupBy).
		Strs("metrics", evalRequest.Metrics).
		Msg("Start evaluation")

	report, err := h.executor.Execute(req.Request.Context(), evalRequest.Rows, executor.Options{
		GroupBy:   groupBy,
		Requested: evalRequest.Metrics,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Evaluation failed")
		middleware.HandleError(resp, err, statusFor(err))
		return
	}

	h.logger.Info().
		Int("rows", report.RowCount).
		Int("groups", report.GroupCount).
		Msg("Evaluation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// GET /api/v1/metrics
func (h *Handler) ListMetrics(req *restful.Request, resp *restful.Response) {
	specs := metrics.Specs()
	out := make([]MetricInfo, 0, len(specs))
	for _, spec := range specs {
		out = append(out, MetricInfo{
			Name:           spec.Name,
			RequiredFields: spec.RequiredFields,
		})
	}
	resp.WriteHeaderAndEntity(http.StatusOK, out)
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}

// statusFor maps configuration errors to client-error statuses. Scoring
// failures never surface here; they live inside the report.
func statusFor(err error) int {
	var unsupported *metrics.UnsupportedMetricsError
	var missing *metrics.MissingFieldsError
	switch {
	case errors.Is(err, batch.ErrEmptyDataset),
		errors.As(err, &unsupported),
		errors.As(err, &missing):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
