package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/metrics"
	"gopkg.in/yaml.v3"
)

// LoadMetricsConfig reads the metric configuration from the path in
// METRICS_CONFIG_PATH (default configs/metrics.yaml). A missing file falls
// back to the built-in defaults so the pipeline works without any config on
// disk; a present-but-broken file is an error.
func LoadMetricsConfig() (*MetricsConfig, error) {
	path := os.Getenv("METRICS_CONFIG_PATH")
	if path == "" {
		path = "configs/metrics.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && os.Getenv("METRICS_CONFIG_PATH") == "" {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg MetricsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills judge model parameters from the default model and adds
// built-in judges for any LLM metric the file does not mention.
func applyDefaults(cfg *MetricsConfig) {
	if cfg.Metrics.DefaultModel.MaxTokens == 0 {
		cfg.Metrics.DefaultModel.MaxTokens = 256
	}

	builtin := map[string]string{
		metrics.ResponseRelevancy:  relevancyPrompt,
		metrics.Faithfulness:       faithfulnessPrompt,
		metrics.ContextRecall:      contextRecallPrompt,
		metrics.FactualCorrectness: factualCorrectnessPrompt,
	}

	configured := make(map[string]bool, len(cfg.Metrics.Judges))
	for i := range cfg.Metrics.Judges {
		judge := &cfg.Metrics.Judges[i]
		configured[judge.Name] = true

		if judge.Model == nil {
			model := cfg.Metrics.DefaultModel
			judge.Model = &model
		} else if judge.Model.MaxTokens == 0 {
			judge.Model.MaxTokens = cfg.Metrics.DefaultModel.MaxTokens
		}

		if judge.Prompt == "" {
			judge.Prompt = builtin[judge.Name]
		}
	}

	for _, name := range []string{metrics.ResponseRelevancy, metrics.Faithfulness, metrics.ContextRecall, metrics.FactualCorrectness} {
		if configured[name] {
			continue
		}
		model := cfg.Metrics.DefaultModel
		cfg.Metrics.Judges = append(cfg.Metrics.Judges, JudgeConfiguration{
			Name:   name,
			Prompt: builtin[name],
			Model:  &model,
		})
	}
}

// Validate rejects judges for unknown metrics and judges without a prompt.
func (c *MetricsConfig) Validate() error {
	for _, judge := range c.Metrics.Judges {
		if _, ok := metrics.Lookup(judge.Name); !ok {
			return fmt.Errorf("judge %q does not match a known metric", judge.Name)
		}
		if judge.Name == metrics.SemanticSimilarity {
			return fmt.Errorf("metric %q is embedding-based and takes no prompt", judge.Name)
		}
		if judge.Prompt == "" {
			return fmt.Errorf("judge %q has no prompt", judge.Name)
		}
	}
	for name := range c.GroupPreferences {
		for _, metric := range c.GroupPreferences[name] {
			if _, ok := metrics.Lookup(metric); !ok {
				return fmt.Errorf("group preference %q lists unknown metric %q", name, metric)
			}
		}
	}
	return nil
}

// Preferences merges the YAML group preference overrides over the built-in
// table, keyed by normalized group name.
func (c *MetricsConfig) Preferences() metrics.Preferences {
	prefs := metrics.DefaultPreferences()
	for name, list := range c.GroupPreferences {
		prefs[metrics.NormalizeGroupName(name)] = list
	}
	return prefs
}

// Judge returns the configuration for a named LLM-judged metric.
func (c *MetricsConfig) Judge(name string) (JudgeConfiguration, bool) {
	for _, judge := range c.Metrics.Judges {
		if judge.Name == name {
			return judge, true
		}
	}
	return JudgeConfiguration{}, false
}
