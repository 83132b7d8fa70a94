package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/meetmeter/internal/domain"
)

var testUserCounter atomic.Int64

// NewStatusCheck builds a status check stamped at ts.
func NewStatusCheck(clientName string, ts time.Time) *domain.StatusCheck {
	return &domain.StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  ts.UTC(),
	}
}

// User options
type UserOption func(*domain.User)

func WithName(name string) UserOption {
	return func(u *domain.User) {
		u.Name = name
	}
}

func WithGoogleID(id string) UserOption {
	return func(u *domain.User) {
		u.GoogleID = id
	}
}

// NewUser builds a user with a unique email unless one is given.
func NewUser(email string, opts ...UserOption) *domain.User {
	if email == "" {
		email = fmt.Sprintf("user%d@example.com", testUserCounter.Add(1))
	}
	u := &domain.User{
		Email:    email,
		Name:     "Test User",
		GoogleID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Credential options
type CredentialOption func(*domain.UserCredential)

func WithAccessToken(tok string) CredentialOption {
	return func(c *domain.UserCredential) {
		c.AccessToken = tok
	}
}

func WithRefreshToken(tok string) CredentialOption {
	return func(c *domain.UserCredential) {
		c.RefreshToken = tok
	}
}

func WithExpiry(t time.Time) CredentialOption {
	return func(c *domain.UserCredential) {
		c.Expiry = t
	}
}

// NewCredential builds a Calendar credential for email valid for one hour.
func NewCredential(email string, opts ...CredentialOption) *domain.UserCredential {
	c := &domain.UserCredential{
		Email:        email,
		AccessToken:  "access-" + uuid.NewString(),
		RefreshToken: "refresh-" + uuid.NewString(),
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
