package judge

import (
	"context"
	"fmt"
	"math"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/llm"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
)

// SimilarityJudge scores semantic similarity between response and reference
// as the cosine similarity of their embeddings.
type SimilarityJudge struct {
	embeddings llm.EmbeddingClient
}

func NewSimilarityJudge(embeddings llm.EmbeddingClient) *SimilarityJudge {
	return &SimilarityJudge{embeddings: embeddings}
}

func (j *SimilarityJudge) ScoreRow(ctx context.Context, row models.Row) (float64, error) {
	response, err := j.embeddings.EmbedText(ctx, row.String(models.FieldResponse))
	if err != nil {
		return 0, fmt.Errorf("failed to embed response: %w", err)
	}

	reference, err := j.embeddings.EmbedText(ctx, row.String(models.FieldReference))
	if err != nil {
		return 0, fmt.Errorf("failed to embed reference: %w", err)
	}

	return cosineSimilarity(response, reference)
}

func cosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude embedding")
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
