package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/metrics"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadMetricsConfigDefaults(t *testing.T) {
	t.Setenv("METRICS_CONFIG_PATH", "")

	cfg, err := LoadMetricsConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every LLM-judged metric gets a built-in judge.
	for _, name := range []string{
		metrics.ResponseRelevancy,
		metrics.Faithfulness,
		metrics.ContextRecall,
		metrics.FactualCorrectness,
	} {
		judge, ok := cfg.Judge(name)
		if !ok {
			t.Errorf("missing built-in judge for %s", name)
			continue
		}
		if judge.Prompt == "" {
			t.Errorf("judge %s has no prompt", name)
		}
		if judge.Model == nil || judge.Model.MaxTokens != 256 {
			t.Errorf("judge %s did not inherit default model: %+v", name, judge.Model)
		}
	}

	// semantic_similarity is embedding-based, never an LLM judge.
	if _, ok := cfg.Judge(metrics.SemanticSimilarity); ok {
		t.Error("semantic_similarity must not have an LLM judge")
	}
}

func TestLoadMetricsConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
metrics:
  default_model:
    max_tokens: 512
    temperature: 0.2
    retry: true
  judges:
    - name: faithfulness
      prompt: "Custom faithfulness prompt {{.Response}}"
      model:
        temperature: 0.5
group_preferences:
  Support_Chat:
    - faithfulness
`)
	t.Setenv("METRICS_CONFIG_PATH", path)

	cfg, err := LoadMetricsConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	judge, ok := cfg.Judge(metrics.Faithfulness)
	if !ok {
		t.Fatal("missing faithfulness judge")
	}
	if !strings.Contains(judge.Prompt, "Custom faithfulness prompt") {
		t.Errorf("custom prompt not kept: %s", judge.Prompt)
	}
	if judge.Model.Temperature != 0.5 {
		t.Errorf("expected temperature override 0.5, got %v", judge.Model.Temperature)
	}
	// Unset max_tokens inherits the default model value.
	if judge.Model.MaxTokens != 512 {
		t.Errorf("expected inherited max_tokens 512, got %d", judge.Model.MaxTokens)
	}

	// Unconfigured metrics still get built-in judges.
	if _, ok := cfg.Judge(metrics.ResponseRelevancy); !ok {
		t.Error("missing built-in response_relevancy judge")
	}

	prefs := cfg.Preferences()
	if !reflect.DeepEqual(prefs["support-chat"], []string{metrics.Faithfulness}) {
		t.Errorf("expected normalized preference key, got %v", prefs)
	}
	// Built-in preferences survive the merge.
	if !reflect.DeepEqual(prefs["qa"], []string{metrics.SemanticSimilarity, metrics.FactualCorrectness}) {
		t.Errorf("built-in qa preference lost: %v", prefs["qa"])
	}
}

func TestLoadMetricsConfigMissingExplicitPath(t *testing.T) {
	t.Setenv("METRICS_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadMetricsConfig()
	if err == nil {
		t.Fatal("expected error for missing explicit config path, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadMetricsConfigBrokenYAML(t *testing.T) {
	path := writeConfigFile(t, "metrics: [broken")
	t.Setenv("METRICS_CONFIG_PATH", path)

	_, err := LoadMetricsConfig()
	if err == nil {
		t.Fatal("expected error for broken YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML config") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *MetricsConfig)
		wantErr string
	}{
		{
			name: "unknown judge metric",
			mutate: func(cfg *MetricsConfig) {
				cfg.Metrics.Judges = append(cfg.Metrics.Judges, JudgeConfiguration{Name: "bleu", Prompt: "p"})
			},
			wantErr: "does not match a known metric",
		},
		{
			name: "semantic similarity judge rejected",
			mutate: func(cfg *MetricsConfig) {
				cfg.Metrics.Judges = append(cfg.Metrics.Judges, JudgeConfiguration{Name: metrics.SemanticSimilarity, Prompt: "p"})
			},
			wantErr: "takes no prompt",
		},
		{
			name: "unknown metric in group preference",
			mutate: func(cfg *MetricsConfig) {
				cfg.GroupPreferences = map[string][]string{"qa": {"bleu"}}
			},
			wantErr: "unknown metric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
