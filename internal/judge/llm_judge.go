package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/config"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/llm"
	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
	"github.com/rs/zerolog"
)

// promptData is what a judge prompt template is rendered with.
type promptData struct {
	UserInput         string
	Response          string
	Reference         string
	RetrievedContexts string
}

type judgeResponse struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// LLMJudge scores one metric on one row by prompting an LLM and parsing a
// {"score": <float>, "reason": "<string>"} reply.
type LLMJudge struct {
	name           string
	promptTemplate *template.Template
	modelConfig    config.ModelConfig
	llmClient      llm.LLMClient
	logger         *zerolog.Logger
}

func NewLLMJudge(judgeCfg config.JudgeConfiguration, llmClient llm.LLMClient, logger *zerolog.Logger) (*LLMJudge, error) {
	tmpl, err := template.New(judgeCfg.Name).Parse(judgeCfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template for judge %s: %w", judgeCfg.Name, err)
	}

	if judgeCfg.Model == nil {
		return nil, fmt.Errorf("judge %s has nil model config (should be populated by config loader)", judgeCfg.Name)
	}

	return &LLMJudge{
		name:           judgeCfg.Name,
		promptTemplate: tmpl,
		modelConfig:    *judgeCfg.Model,
		llmClient:      llmClient,
		logger:         logger,
	}, nil
}

// Name returns the metric this judge scores.
func (j *LLMJudge) Name() string {
	return j.name
}

// ScoreRow evaluates one row. Any failure (prompt build, LLM call, reply
// parsing, out-of-range score) is returned as an error and fails the metric
// for the whole group.
func (j *LLMJudge) ScoreRow(ctx context.Context, row models.Row) (float64, error) {
	prompt, err := j.buildPrompt(row)
	if err != nil {
		return 0, fmt.Errorf("failed to build prompt for %s: %w", j.name, err)
	}

	request := llm.LLMRequest{
		Prompt:      prompt,
		MaxTokens:   j.modelConfig.MaxTokens,
		Temperature: j.modelConfig.Temperature,
	}

	var resp *llm.LLMResponse
	if j.modelConfig.Retry {
		resp, err = j.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = j.llmClient.InvokeModel(ctx, request)
	}
	if err != nil {
		return 0, fmt.Errorf("LLM call failed for %s: %w", j.name, err)
	}

	content := stripMarkdownCodeBlock(resp.Content)
	var parsed judgeResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		j.logger.Error().
			Err(err).
			Str("judge", j.name).
			Str("content", resp.Content).
			Msg("failed to deserialize LLM response")
		return 0, fmt.Errorf("failed to deserialize LLM response for %s", j.name)
	}

	if parsed.Score == 0.0 && parsed.Reason == "" {
		return 0, fmt.Errorf("invalid LLM response for %s: missing score and reason", j.name)
	}
	if parsed.Score < 0.0 || parsed.Score > 1.0 {
		return 0, fmt.Errorf("invalid LLM response for %s: score %f out of range [0.0, 1.0]", j.name, parsed.Score)
	}

	j.logger.Debug().
		Str("judge", j.name).
		Float64("score", parsed.Score).
		Msg("row scored")
	return parsed.Score, nil
}

func (j *LLMJudge) buildPrompt(row models.Row) (string, error) {
	data := promptData{
		UserInput:         row.String(models.FieldUserInput),
		Response:          row.String(models.FieldResponse),
		Reference:         row.String(models.FieldReference),
		RetrievedContexts: strings.Join(row.StringList(models.FieldRetrievedContexts), "\n\n"),
	}

	var buf bytes.Buffer
	if err := j.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

// stripMarkdownCodeBlock removes markdown code block formatting if present
func stripMarkdownCodeBlock(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		firstNewline := strings.Index(content, "\n")
		if firstNewline == -1 {
			return content
		}

		closingBackticks := strings.LastIndex(content, "```")
		if closingBackticks == -1 || closingBackticks <= firstNewline {
			return content
		}

		content = content[firstNewline+1 : closingBackticks]
		content = strings.TrimSpace(content)
	}

	return content
}
