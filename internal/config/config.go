// Package config loads process-wide settings once at startup from .env,
// the environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/alexanderramin/meetmeter/internal/analysis"
	"github.com/alexanderramin/meetmeter/internal/llm"
)

// ErrConfiguration is returned when a required setting is missing or invalid.
var ErrConfiguration = errors.New("configuration error")

const (
	DefaultHTTPAddr   = ":8001"
	DefaultSessionTTL = 7 * 24 * time.Hour
	DefaultFrontend   = "http://localhost:3000"
)

// Config is the validated process configuration.
type Config struct {
	LLM llm.LLMConfig

	StoreURL string
	DBName   string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendURL        string

	JWTSecret  string
	SessionTTL time.Duration

	Theme       string
	HTTPAddr    string
	LogLevel    string
	Development bool
	Location    *time.Location
	CORSOrigins []string
}

// OAuthConfigured reports whether the Google OAuth client credentials are set.
func (c *Config) OAuthConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Load reads .env (if present), then the environment and the optional config
// file, and validates the result.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return FromViper(v)
}

func setDefaults(v *viper.Viper) {
	def := llm.DefaultConfig()
	v.SetDefault("llm_provider", string(def.Provider))
	v.SetDefault("llm_model", def.Model)
	v.SetDefault("ollama_endpoint", def.Endpoint)
	v.SetDefault("llm_timeout_ms", def.TimeoutMs)
	v.SetDefault("llm_log_calls", true)
	v.SetDefault("frontend_url", DefaultFrontend)
	v.SetDefault("session_ttl", DefaultSessionTTL)
	v.SetDefault("theme", analysis.ThemeOppression)
	v.SetDefault("http_addr", DefaultHTTPAddr)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("cors_origins", "*")
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	llmCfg := llm.DefaultConfig()
	llmCfg.Provider = llm.Provider(strings.ToLower(v.GetString("llm_provider")))
	llmCfg.APIKey = v.GetString("openai_api_key")
	llmCfg.BaseURL = v.GetString("openai_base_url")
	llmCfg.Model = v.GetString("llm_model")
	llmCfg.Endpoint = v.GetString("ollama_endpoint")
	llmCfg.TimeoutMs = v.GetInt("llm_timeout_ms")
	llmCfg.LogCalls = v.GetBool("llm_log_calls")

	cfg := &Config{
		LLM:                llmCfg,
		StoreURL:           v.GetString("store_url"),
		DBName:             v.GetString("db_name"),
		GoogleClientID:     v.GetString("google_client_id"),
		GoogleClientSecret: v.GetString("google_client_secret"),
		GoogleRedirectURL:  v.GetString("google_redirect_url"),
		FrontendURL:        strings.TrimRight(v.GetString("frontend_url"), "/"),
		JWTSecret:          v.GetString("jwt_secret"),
		SessionTTL:         v.GetDuration("session_ttl"),
		Theme:              strings.ToLower(v.GetString("theme")),
		HTTPAddr:           v.GetString("http_addr"),
		LogLevel:           v.GetString("log_level"),
		Development:        v.GetBool("log_development"),
		CORSOrigins:        splitList(v.GetString("cors_origins")),
	}

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return nil, fmt.Errorf("%w: TIMEZONE %q: %v", ErrConfiguration, v.GetString("timezone"), err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireStore checks the settings needed to open the store.
func (c *Config) RequireStore() error {
	return c.requireSet(map[string]string{"STORE_URL": c.StoreURL, "DB_NAME": c.DBName})
}

// RequireServer checks the settings the HTTP API cannot start without.
func (c *Config) RequireServer() error {
	return c.requireSet(map[string]string{
		"STORE_URL":  c.StoreURL,
		"DB_NAME":    c.DBName,
		"JWT_SECRET": c.JWTSecret,
	})
}

func (c *Config) requireSet(values map[string]string) error {
	var missing []string
	for key, val := range values {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, ", "))
}

// Validate checks the values every command depends on. Settings only some
// commands need are checked by RequireStore and RequireServer.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case llm.ProviderOpenAI, llm.ProviderOllama:
	default:
		return fmt.Errorf("%w: unknown LLM_PROVIDER %q", ErrConfiguration, c.LLM.Provider)
	}
	if _, ok := analysis.LookupTheme(c.Theme); !ok {
		return fmt.Errorf("%w: unknown THEME %q", ErrConfiguration, c.Theme)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL must be positive", ErrConfiguration)
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
