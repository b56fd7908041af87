package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskSuggest TaskType = "suggest"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with the LLM disabled.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskSuggest: {Temperature: 0.7, MaxTokens: 2048, TimeoutMs: 30000},
		},
	}
}

// LoadConfig reads CADENCE_LLM_* environment variables on top of the
// defaults. Malformed values are ignored.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v, ok := envBool("CADENCE_LLM_ENABLED"); ok {
		cfg.Enabled = v
	}
	if v, ok := envBool("CADENCE_LLM_LOG_CALLS"); ok {
		cfg.LogCalls = v
	}
	if v := os.Getenv("CADENCE_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("CADENCE_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if n, ok := envInt("CADENCE_LLM_TIMEOUT_MS"); ok && n > 0 {
		cfg.TimeoutMs = n
	}
	if n, ok := envInt("CADENCE_LLM_MAX_RETRIES"); ok && n >= 0 {
		cfg.MaxRetries = n
	}
	if n, ok := envInt("CADENCE_LLM_SUGGEST_TIMEOUT_MS"); ok && n > 0 {
		tc := cfg.Tasks[TaskSuggest]
		tc.TimeoutMs = n
		cfg.Tasks[TaskSuggest] = tc
	}
	return cfg
}

// TaskTimeout returns the task-specific timeout if set, otherwise the global
// one.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func envBool(name string) (bool, bool) {
	v := os.Getenv(name)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	return b, err == nil
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}
