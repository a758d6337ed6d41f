package config

// MetricsConfig is the YAML-backed configuration for metric scoring: model
// parameters and prompt templates for the LLM judges, plus group-name
// preference overrides for auto-selection.
type MetricsConfig struct {
	Metrics MetricsSection `yaml:"metrics"`

	// GroupPreferences maps a group name to an ordered metric preference
	// list, overriding the built-in table. Keys are normalized (trimmed,
	// lower-cased, underscores to hyphens) before lookup.
	GroupPreferences map[string][]string `yaml:"group_preferences"`
}

type MetricsSection struct {
	DefaultModel ModelConfig          `yaml:"default_model"`
	Judges       []JudgeConfiguration `yaml:"judges"`
}

// ModelConfig holds per-judge model invocation parameters.
type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Retry       bool    `yaml:"retry"`
}

// JudgeConfiguration configures one LLM-judged metric. The prompt is a Go
// text/template rendered with the row's fields and must instruct the model
// to answer with {"score": <float>, "reason": "<string>"}.
type JudgeConfiguration struct {
	Name   string       `yaml:"name"`
	Prompt string       `yaml:"prompt"`
	Model  *ModelConfig `yaml:"model"`
}
