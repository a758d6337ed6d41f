package gpt

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// EmbedText returns the embedding vector for text from the configured
// OpenAI embedding model.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if c.EmbeddingModelID == "" {
		return nil, fmt.Errorf("no embedding model configured")
	}

	output, err := c.Client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model: openai.EmbeddingModel(c.EmbeddingModelID),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to invoke embedding model: %w", err)
	}

	if len(output.Data) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}

	return output.Data[0].Embedding, nil
}
