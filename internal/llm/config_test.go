package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_CalendarAnalysisSampling(t *testing.T) {
	cfg := DefaultConfig()
	task := cfg.Tasks[TaskCalendarAnalysis]
	assert.Equal(t, 0.8, task.Temperature)
	assert.Equal(t, 1000, task.MaxTokens)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
}

func TestTaskTimeout_TaskOverridesGlobal(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 60*time.Second, cfg.TaskTimeout(TaskCalendarAnalysis))

	cfg.Tasks[TaskCalendarAnalysis] = TaskConfig{Temperature: 0.8, MaxTokens: 1000, TimeoutMs: 1500}
	assert.Equal(t, 1500*time.Millisecond, cfg.TaskTimeout(TaskCalendarAnalysis))
}

func TestConfigured(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Configured(), "openai needs a key")

	cfg.APIKey = "sk-test"
	assert.True(t, cfg.Configured())

	cfg = DefaultConfig()
	cfg.Provider = ProviderOllama
	assert.True(t, cfg.Configured(), "ollama needs only an endpoint")
}

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := NewClient(DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClient_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "k"
	cfg.Provider = "carrier-pigeon"
	_, err := NewClient(cfg, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
