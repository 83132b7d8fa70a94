package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alexanderramin/meetmeter/internal/analysis"
	"github.com/alexanderramin/meetmeter/internal/config"
	"github.com/alexanderramin/meetmeter/internal/domain"
	"github.com/alexanderramin/meetmeter/internal/llm"
)

const validReply = `{"independence_percentage": 70, "witty_message": "You're 70% independent.",
"detailed_analysis": "Mostly free.", "meeting_stats": {"total_meetings": 2, "total_hours": 1.5,
"avg_meeting_length": 0.75, "longest_meeting_free_block": "Friday"},
"recommendations": ["Keep Friday", "Cancel the retro", "Walk more"]}`

type mockLLMClient struct {
	prompts []llm.GenerateRequest
	down    bool
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.prompts = append(m.prompts, req)
	return &llm.GenerateResponse{Text: validReply}, nil
}

func (m *mockLLMClient) Available(context.Context) bool { return !m.down }

func testConfig(apiKey string) *config.Config {
	cfg := &config.Config{
		LLM:        llm.DefaultConfig(),
		StoreURL:   ":memory:",
		DBName:     "meetmeter_test",
		JWTSecret:  "secret",
		SessionTTL: time.Hour,
		Theme:      analysis.ThemeOppression,
		LogLevel:   "error",
		Location:   time.UTC,
	}
	cfg.LLM.APIKey = apiKey
	return cfg
}

func newTestApp(cfg *config.Config, client *mockLLMClient, interactive bool) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	app := &App{
		Out:           &out,
		IsInteractive: func() bool { return interactive },
		LoadConfig:    func(string) (*config.Config, error) { return cfg, nil },
		NewLLMClient: func(llm.LLMConfig, llm.Observer) (llm.LLMClient, error) {
			return client, nil
		},
	}
	return app, &out
}

func execute(t *testing.T, app *App, stdin string, args ...string) error {
	t.Helper()
	root := NewRootCmd(app)
	root.SetIn(strings.NewReader(stdin))
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	return root.Execute()
}

func TestAnalyze_FileToJSON(t *testing.T) {
	client := &mockLLMClient{}
	app, out := newTestApp(testConfig("sk-test"), client, false)
	path := filepath.Join(t.TempDir(), "week.txt")
	require.NoError(t, os.WriteFile(path, []byte("9:00 AM - 10:00 AM: Daily Standup"), 0o644))

	require.NoError(t, execute(t, app, "", "analyze", path, "--period", "next sprint"))

	var res domain.AnalysisResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 70, res.IndependencePercentage)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0].UserPrompt, "Daily Standup")
	assert.Contains(t, client.prompts[0].UserPrompt, "next sprint")
}

func TestAnalyze_StdinInteractive(t *testing.T) {
	client := &mockLLMClient{}
	app, out := newTestApp(testConfig("sk-test"), client, true)

	require.NoError(t, execute(t, app, "Mon 2-3pm: Planning", "analyze"))

	assert.Contains(t, out.String(), "You're 70% independent.")
	assert.Contains(t, out.String(), "Cancel the retro")
	assert.Len(t, client.prompts, 1)
}

func TestAnalyze_JSONFlagOverridesTerminal(t *testing.T) {
	app, out := newTestApp(testConfig("sk-test"), &mockLLMClient{}, true)

	require.NoError(t, execute(t, app, "x", "analyze", "-", "--json"))

	assert.True(t, json.Valid(out.Bytes()), out.String())
}

func TestAnalyze_NoCredential(t *testing.T) {
	client := &mockLLMClient{}
	app, _ := newTestApp(testConfig(""), client, false)

	err := execute(t, app, "x", "analyze")

	require.ErrorIs(t, err, analysis.ErrLLMNotConfigured)
	assert.Empty(t, client.prompts)
}

func TestAnalyze_MissingFile(t *testing.T) {
	app, _ := newTestApp(testConfig("sk-test"), &mockLLMClient{}, false)
	err := execute(t, app, "", "analyze", filepath.Join(t.TempDir(), "nope.ics"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading calendar file")
}

func TestMigrate(t *testing.T) {
	app, out := newTestApp(testConfig(""), nil, false)

	require.NoError(t, execute(t, app, "", "migrate"))

	assert.Equal(t, "schema up to date (sqlite, meetmeter_test)\n", out.String())
}

func TestConfigErrorStopsCommand(t *testing.T) {
	app := &App{
		Out: &bytes.Buffer{},
		LoadConfig: func(string) (*config.Config, error) {
			return nil, config.ErrConfiguration
		},
	}
	err := execute(t, app, "", "migrate")
	require.ErrorIs(t, err, config.ErrConfiguration)
}

func TestLogModelReadiness(t *testing.T) {
	tests := []struct {
		name    string
		client  llm.LLMClient
		level   zapcore.Level
		message string
	}{
		{"reachable", &mockLLMClient{}, zapcore.InfoLevel, "llm backend ready"},
		{"unreachable", &mockLLMClient{down: true}, zapcore.WarnLevel, "llm backend not reachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			app := &App{cfg: testConfig("sk-test"), logger: zap.New(core)}

			app.logModelReadiness(context.Background(), tt.client)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, tt.message, entries[0].Message)
			assert.Equal(t, "gpt-3.5-turbo", entries[0].ContextMap()["model"])
		})
	}

	core, logs := observer.New(zapcore.InfoLevel)
	app := &App{cfg: testConfig(""), logger: zap.New(core)}
	app.logModelReadiness(context.Background(), nil)
	assert.Zero(t, logs.Len())
}

func TestAnalyze_RunsWithoutStoreSettings(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"STORE_URL", "DB_NAME", "JWT_SECRET"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("LOG_LEVEL", "error")

	client := &mockLLMClient{}
	var out bytes.Buffer
	app := &App{
		Out: &out,
		NewLLMClient: func(llm.LLMConfig, llm.Observer) (llm.LLMClient, error) {
			return client, nil
		},
	}

	require.NoError(t, execute(t, app, "9:00 AM - 10:00 AM: Daily Standup", "analyze"))
	assert.True(t, json.Valid(out.Bytes()), out.String())
	assert.Len(t, client.prompts, 1)

	err := execute(t, &App{Out: &bytes.Buffer{}}, "", "migrate")
	require.ErrorIs(t, err, config.ErrConfiguration)
	assert.Contains(t, err.Error(), "STORE_URL")
	assert.NotContains(t, err.Error(), "JWT_SECRET")

	err = execute(t, &App{Out: &bytes.Buffer{}}, "", "serve")
	require.ErrorIs(t, err, config.ErrConfiguration)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
