package types

import (
	"context"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
)

// Job is one queued evaluation request: a dataset plus run options.
type Job struct {
	JobID   string       `json:"job_id"`
	GroupBy string       `json:"group_by,omitempty"`
	Metrics []string     `json:"metrics,omitempty"`
	Rows    []models.Row `json:"rows"`
}

// Result wraps the outcome published for a finished job.
type Result struct {
	JobID  string            `json:"job_id"`
	Report *models.RunReport `json:"report,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// StreamConsumer consumes evaluation jobs from a message stream.
type StreamConsumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}
