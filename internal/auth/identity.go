package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Identity is the verified subject of a Google ID token.
type Identity struct {
	Email   string
	Name    string
	Subject string
}

// IdentityVerifier checks an identity-provider token and returns its subject.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleVerifier validates Google ID tokens, signature included, against
// Google's published certificates.
type GoogleVerifier struct {
	audience string
	validate validateFunc
}

// NewGoogleVerifier creates a verifier accepting tokens issued for clientID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{audience: clientID, validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if v.audience == "" {
		return nil, ErrOAuthNotConfigured
	}
	if rawToken == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidIDToken)
	}

	payload, err := v.validate(ctx, rawToken, v.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (*Identity, error) {
	email, _ := p.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email claim", ErrInvalidIDToken)
	}
	if verified, ok := p.Claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidIDToken)
	}
	name, _ := p.Claims["name"].(string)
	return &Identity{Email: email, Name: name, Subject: p.Subject}, nil
}
