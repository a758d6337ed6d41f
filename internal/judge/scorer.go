package judge

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/config"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/llm"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/metrics"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
	"github.com/rs/zerolog"
)

// rowJudge scores one metric on one row.
type rowJudge interface {
	ScoreRow(ctx context.Context, row models.Row) (float64, error)
}

// Scorer is the metric scoring engine: it dispatches each metric to its
// judge and scores a group's rows one at a time, in order. It satisfies the
// executor's Scorer port.
type Scorer struct {
	judges map[string]rowJudge
	logger *zerolog.Logger
}

// NewScorer builds judges for every metric from the configuration: LLM
// judges for the prompt-based metrics and an embedding judge for semantic
// similarity.
func NewScorer(cfg *config.MetricsConfig, llmClient llm.LLMClient, embeddings llm.EmbeddingClient, logger *zerolog.Logger) (*Scorer, error) {
	judges := make(map[string]rowJudge)

	for _, judgeCfg := range cfg.Metrics.Judges {
		j, err := NewLLMJudge(judgeCfg, llmClient, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create judge %s: %w", judgeCfg.Name, err)
		}
		judges[judgeCfg.Name] = j
	}

	judges[metrics.SemanticSimilarity] = NewSimilarityJudge(embeddings)

	logger.Info().Int("judge_count", len(judges)).Msg("metric scorer initialized")

	return &Scorer{
		judges: judges,
		logger: logger,
	}, nil
}

// Score evaluates one metric over the whole row set, returning one score per
// row in row order. The first row failure fails the metric: the orchestrator
// records it for the group and moves on to the next metric.
func (s *Scorer) Score(ctx context.Context, rows []models.Row, spec metrics.Spec) ([]*float64, error) {
	j, ok := s.judges[spec.Name]
	if !ok {
		return nil, fmt.Errorf("no judge configured for metric %s", spec.Name)
	}

	scores := make([]*float64, len(rows))
	for i, row := range rows {
		value, err := j.ScoreRow(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		score := value
		scores[i] = &score
	}

	return scores, nil
}
