package config

import "github.com/povarna/generative-ai-agents/dataset-eval/internal/metrics"

const relevancyPrompt = `You are evaluating whether an answer addresses the question that was asked.

Question:
{{.UserInput}}

Answer:
{{.Response}}

Score how directly and completely the answer addresses the question on a
scale from 0.0 (entirely off-topic) to 1.0 (fully addresses the question).
Ignore factual accuracy; only judge relevance.

Respond with JSON only: {"score": <float>, "reason": "<string>"}`

const faithfulnessPrompt = `You are checking whether an answer is supported by the retrieved context.

Question:
{{.UserInput}}

Retrieved context:
{{.RetrievedContexts}}

Answer:
{{.Response}}

Score the fraction of claims in the answer that can be inferred from the
retrieved context, from 0.0 (nothing supported) to 1.0 (every claim
supported). Penalize fabricated details.

Respond with JSON only: {"score": <float>, "reason": "<string>"}`

const contextRecallPrompt = `You are checking whether the retrieved context covers the reference answer.

Question:
{{.UserInput}}

Reference answer:
{{.Reference}}

Retrieved context:
{{.RetrievedContexts}}

Score the fraction of statements in the reference answer that are
attributable to the retrieved context, from 0.0 (none) to 1.0 (all).

Respond with JSON only: {"score": <float>, "reason": "<string>"}`

const factualCorrectnessPrompt = `You are comparing an answer against a reference answer for factual agreement.

Question:
{{.UserInput}}

Reference answer:
{{.Reference}}

Answer:
{{.Response}}

Score the factual overlap between the answer and the reference from 0.0
(contradicts or misses everything) to 1.0 (factually equivalent). Penalize
both contradictions and significant omissions.

Respond with JSON only: {"score": <float>, "reason": "<string>"}`

// Default returns the built-in metric configuration used when no YAML file
// is present.
func Default() *MetricsConfig {
	cfg := &MetricsConfig{
		Metrics: MetricsSection{
			DefaultModel: ModelConfig{
				MaxTokens:   256,
				Temperature: 0.0,
				Retry:       true,
			},
			Judges: []JudgeConfiguration{
				{Name: metrics.ResponseRelevancy, Prompt: relevancyPrompt},
				{Name: metrics.Faithfulness, Prompt: faithfulnessPrompt},
				{Name: metrics.ContextRecall, Prompt: contextRecallPrompt},
				{Name: metrics.FactualCorrectness, Prompt: factualCorrectnessPrompt},
			},
		},
	}
	applyDefaults(cfg)
	return cfg
}
