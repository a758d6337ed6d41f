package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/executor"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/grouping"
	stream "github.com/povarna/generative-ai-agents/dataset-eval/internal/stream/types"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Consumer reads evaluation jobs from a Redis stream through a consumer
// group, runs them through the executor, and publishes results to the
// result stream. Configuration errors in a job are published as a failed
// result and the message is acked either way.
type Consumer struct {
	client       *redis.Client
	stream       string
	resultStream string
	groupID      string
	consumerName string
	executor     *executor.Executor
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, exec *executor.Executor, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		resultStream: cfg.ResultStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		executor:     exec,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Job received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var job stream.Job
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode job")
		c.ack(ctx, msg.ID)
		return
	}

	groupBy := job.GroupBy
	if groupBy == "" {
		groupBy = grouping.ModeCategory
	}

	result := stream.Result{JobID: job.JobID}
	report, err := c.executor.Execute(ctx, job.Rows, executor.Options{
		GroupBy:   groupBy,
		Requested: job.Metrics,
	})
	if err != nil {
		c.logger.Error().Err(err).Str("job_id", job.JobID).Msg("Evaluation failed")
		result.Error = err.Error()
	} else {
		result.Report = report
	}

	if err := c.publish(ctx, result); err != nil {
		c.logger.Error().Err(err).Str("job_id", job.JobID).Msg("Failed to publish result")
		// Leave unacked so another worker can retry the job.
		return
	}

	c.ack(ctx, msg.ID)
}

func (c *Consumer) publish(ctx context.Context, result stream.Result) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		Values: map[string]any{"payload": string(encoded)},
	}).Err()
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, id).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", id).Msg("Failed to ack message")
	}
}
