package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer     = "meetmeter"
	sessionAudience = "meetmeter-session"
	stateAudience   = "meetmeter-oauth-state"
	stateTTL        = 10 * time.Minute
)

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// SessionIssuer signs and checks HS256 session tokens and OAuth state values.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionIssuer(secret string, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a session token for id.
func (s *SessionIssuer) Issue(id Identity) (string, error) {
	return s.sign(sessionClaims{Email: id.Email, Name: id.Name}, id.Email, sessionAudience, s.ttl)
}

// Parse verifies a session token and returns the identity it was issued for.
func (s *SessionIssuer) Parse(token string) (*Identity, error) {
	claims, err := s.parse(token, sessionAudience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return &Identity{Email: claims.Email, Name: claims.Name, Subject: claims.Subject}, nil
}

// IssueState returns a short-lived signed OAuth state binding the consent
// flow to email.
func (s *SessionIssuer) IssueState(email string) (string, error) {
	return s.sign(sessionClaims{Email: email}, email, stateAudience, stateTTL)
}

// ParseState verifies a state value from the OAuth callback and returns its email.
func (s *SessionIssuer) ParseState(state string) (string, error) {
	claims, err := s.parse(state, stateAudience)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return claims.Email, nil
}

func (s *SessionIssuer) sign(claims sessionClaims, subject, audience string, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    tokenIssuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *SessionIssuer) parse(token, audience string) (*sessionClaims, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, errors.New("token has no email")
	}
	return &claims, nil
}
