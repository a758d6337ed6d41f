package bedrock

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Client invokes evaluator models on AWS Bedrock: a Claude chat model for
// LLM judging and a Titan text-embedding model for similarity scoring.
type Client struct {
	Client           *bedrockruntime.Client
	ModelID          string
	EmbeddingModelID string
	MaxRetries       int
	InitialDelay     time.Duration
	MaxDelay         time.Duration
}

func NewClient(ctx context.Context, region string, modelID string, embeddingModelID string) (*Client, error) {
	if region == "" {
		return nil, fmt.Errorf("missing AWS region: pass -region or set AWS_DEFAULT_REGION")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Client{
		Client:           bedrockruntime.NewFromConfig(cfg),
		ModelID:          modelID,
		EmbeddingModelID: embeddingModelID,
		MaxRetries:       3,
		InitialDelay:     200 * time.Millisecond,
		MaxDelay:         10 * time.Second,
	}, nil
}
