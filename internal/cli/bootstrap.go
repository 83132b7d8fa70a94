package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexanderramin/meetmeter/internal/analysis"
	"github.com/alexanderramin/meetmeter/internal/auth"
	"github.com/alexanderramin/meetmeter/internal/calendar"
	"github.com/alexanderramin/meetmeter/internal/config"
	"github.com/alexanderramin/meetmeter/internal/db"
	"github.com/alexanderramin/meetmeter/internal/llm"
	"github.com/alexanderramin/meetmeter/internal/repository"
	"github.com/alexanderramin/meetmeter/internal/server"
)

// newLLMClient returns nil, not an error, when no model credential is set:
// the process still starts and analysis requests answer with a configuration error.
func (a *App) newLLMClient() (llm.LLMClient, error) {
	if !a.cfg.LLM.Configured() {
		a.logger.Warn("no LLM credential configured; analysis endpoints will fail",
			zap.String("provider", string(a.cfg.LLM.Provider)))
		return nil, nil
	}
	var observer llm.Observer = llm.NoopObserver{}
	if a.cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(a.logger)
	}
	client, err := a.NewLLMClient(a.cfg.LLM, observer)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return nil, nil
		}
		return nil, fmt.Errorf("creating llm client: %w", err)
	}
	return client, nil
}

func (a *App) theme() (analysis.Theme, error) {
	theme, ok := analysis.LookupTheme(a.cfg.Theme)
	if !ok {
		return analysis.Theme{}, fmt.Errorf("%w: unknown theme %q", config.ErrConfiguration, a.cfg.Theme)
	}
	return theme, nil
}

// logModelReadiness reports whether the model backend answers before the
// server starts taking traffic. An unreachable backend is not fatal.
func (a *App) logModelReadiness(ctx context.Context, client llm.LLMClient) {
	if client == nil {
		return
	}
	fields := []zap.Field{
		zap.String("provider", string(a.cfg.LLM.Provider)),
		zap.String("model", a.cfg.LLM.Model),
	}
	if !client.Available(ctx) {
		a.logger.Warn("llm backend not reachable", fields...)
		return
	}
	a.logger.Info("llm backend ready", fields...)
}

// newAnalyzer builds the analysis orchestrator. Calendar access is wired
// only when creds is non-nil.
func (a *App) newAnalyzer(client llm.LLMClient, oauth *auth.OAuthFlow, creds analysis.CredentialStore) (*analysis.Analyzer, error) {
	theme, err := a.theme()
	if err != nil {
		return nil, err
	}
	opts := []analysis.Option{
		analysis.WithObserver(analysis.NewLogObserver(a.logger)),
		analysis.WithLogger(a.logger),
		analysis.WithLocation(a.cfg.Location),
	}
	if creds != nil {
		opts = append(opts, analysis.WithCalendar(calendar.NewGoogleProvider(oauth.Config()), creds))
	}
	return analysis.NewAnalyzer(client, theme, opts...), nil
}

func (a *App) openStore(ctx context.Context) (*db.Store, error) {
	store, err := db.Open(ctx, a.cfg.StoreURL, a.cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	a.logger.Info("store ready", zap.String("dialect", string(store.Dialect)), zap.String("db", a.cfg.DBName))
	return store, nil
}

// newServer wires the HTTP surface over an open store.
func (a *App) newServer(ctx context.Context, store *db.Store) (*server.Server, error) {
	if !a.cfg.OAuthConfigured() {
		a.logger.Warn("google oauth client not configured; login and calendar endpoints will fail")
	}
	oauth := auth.NewOAuthFlow(a.cfg.GoogleClientID, a.cfg.GoogleClientSecret, a.cfg.GoogleRedirectURL)

	client, err := a.newLLMClient()
	if err != nil {
		return nil, err
	}
	a.logModelReadiness(ctx, client)

	creds := repository.NewSQLCredentialRepo(store, store.Dialect)
	analyzer, err := a.newAnalyzer(client, oauth, creds)
	if err != nil {
		return nil, err
	}

	return server.New(server.Deps{
		Analyzer:    analyzer,
		Statuses:    repository.NewSQLStatusRepo(store, store.Dialect),
		Users:       repository.NewSQLUserRepo(store, store.Dialect),
		Credentials: creds,
		Verifier:    auth.NewGoogleVerifier(a.cfg.GoogleClientID),
		Sessions:    auth.NewSessionIssuer(a.cfg.JWTSecret, a.cfg.SessionTTL),
		OAuth:       oauth,
		FrontendURL: a.cfg.FrontendURL,
		CORSOrigins: a.cfg.CORSOrigins,
		Logger:      a.logger,
	}), nil
}
