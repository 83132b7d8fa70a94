package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// CalendarScopes are requested during the consent flow.
var CalendarScopes = []string{gcal.CalendarReadonlyScope, "openid", "email", "profile"}

// OAuthFlow builds consent URLs and exchanges authorization codes.
type OAuthFlow struct {
	config *oauth2.Config
}

type OAuthOption func(*oauth2.Config)

// WithEndpoint overrides the Google endpoints.
func WithEndpoint(ep oauth2.Endpoint) OAuthOption {
	return func(c *oauth2.Config) { c.Endpoint = ep }
}

func NewOAuthFlow(clientID, clientSecret, redirectURL string, opts ...OAuthOption) *OAuthFlow {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       CalendarScopes,
		Endpoint:     google.Endpoint,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &OAuthFlow{config: cfg}
}

// Config exposes the client configuration so token sources can refresh.
func (f *OAuthFlow) Config() *oauth2.Config { return f.config }

func (f *OAuthFlow) Configured() bool {
	return f.config.ClientID != "" && f.config.ClientSecret != ""
}

// AuthCodeURL returns the consent URL. Offline access with forced consent
// makes Google return a refresh token.
func (f *OAuthFlow) AuthCodeURL(state string) (string, error) {
	if !f.Configured() {
		return "", ErrOAuthNotConfigured
	}
	return f.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	), nil
}

// Exchange trades an authorization code for a token.
func (f *OAuthFlow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if !f.Configured() {
		return nil, ErrOAuthNotConfigured
	}
	tok, err := f.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok, nil
}
