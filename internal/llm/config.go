package llm

import "time"

// Provider selects the model backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskCalendarAnalysis TaskType = "calendar_analysis"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider  Provider
	APIKey    string
	BaseURL   string // OpenAI-compatible base URL, empty for the public API
	Endpoint  string // Ollama endpoint
	Model     string
	TimeoutMs int
	LogCalls  bool
	Tasks     map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig targeting the OpenAI chat API with the
// fixed sampling parameters used for calendar analysis.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:  ProviderOpenAI,
		Endpoint:  "http://localhost:11434",
		Model:     "gpt-3.5-turbo",
		TimeoutMs: 60000,
		Tasks: map[TaskType]TaskConfig{
			TaskCalendarAnalysis: {Temperature: 0.8, MaxTokens: 1000},
		},
	}
}

// Configured reports whether the selected provider has what it needs to run.
// Ollama needs no credential.
func (c LLMConfig) Configured() bool {
	switch c.Provider {
	case ProviderOllama:
		return c.Endpoint != ""
	default:
		return c.APIKey != ""
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return time.Duration(tc.TimeoutMs) * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// resolveParams applies per-request overrides on top of task defaults.
func (c LLMConfig) resolveParams(req GenerateRequest) (float64, int) {
	taskCfg := c.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}
