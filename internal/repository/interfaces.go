package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/meetmeter/internal/domain"
)

// ErrNotFound is returned when a keyed lookup matches no record.
var ErrNotFound = errors.New("not found")

// StatusListLimit caps the number of status checks returned by List.
const StatusListLimit = 1000

type StatusRepo interface {
	Create(ctx context.Context, s *domain.StatusCheck) error
	// List returns at most limit records, newest first.
	List(ctx context.Context, limit int) ([]*domain.StatusCheck, error)
}

type UserRepo interface {
	Upsert(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CredentialRepo interface {
	Upsert(ctx context.Context, c *domain.UserCredential) error
	GetByEmail(ctx context.Context, email string) (*domain.UserCredential, error)
}
