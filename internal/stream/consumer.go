package stream

import (
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/stream/types"
)

// Job is one queued evaluation request: a dataset plus run options.
type Job = types.Job

// Result wraps the outcome published for a finished job.
type Result = types.Result

// StreamConsumer consumes evaluation jobs from a message stream.
type StreamConsumer = types.StreamConsumer
