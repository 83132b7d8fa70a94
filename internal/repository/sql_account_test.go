package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/meetmeter/internal/testutil"
)

func TestUserRepo_UpsertAndGet(t *testing.T) {
	store := testutil.NewTestDB(t)
	repo := NewSQLUserRepo(store, store.Dialect)
	ctx := context.Background()

	u := testutil.NewUser("alice@example.com", testutil.WithName("Alice"), testutil.WithGoogleID("g-1"))
	require.NoError(t, repo.Upsert(ctx, u))

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "g-1", got.GoogleID)
	assert.False(t, got.CreatedAt.IsZero())
	created := got.CreatedAt

	renamed := testutil.NewUser("alice@example.com", testutil.WithName("Alice B."), testutil.WithGoogleID("g-1"))
	require.NoError(t, repo.Upsert(ctx, renamed))

	got, err = repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", got.Name)
	assert.Equal(t, created, got.CreatedAt, "created_at survives updates")
}

func TestUserRepo_NotFound(t *testing.T) {
	store := testutil.NewTestDB(t)
	_, err := NewSQLUserRepo(store, store.Dialect).GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCredentialRepo_UpsertAndGet(t *testing.T) {
	store := testutil.NewTestDB(t)
	repo := NewSQLCredentialRepo(store, store.Dialect)
	ctx := context.Background()

	expiry := time.Date(2024, 3, 1, 10, 0, 0, 123000, time.UTC)
	c := testutil.NewCredential("alice@example.com", testutil.WithAccessToken("a1"), testutil.WithRefreshToken("r1"), testutil.WithExpiry(expiry))
	require.NoError(t, repo.Upsert(ctx, c))

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.AccessToken)
	assert.Equal(t, "r1", got.RefreshToken)
	assert.Equal(t, "Bearer", got.TokenType)
	assert.Equal(t, expiry, got.Expiry)

	require.NoError(t, repo.Upsert(ctx, testutil.NewCredential("alice@example.com", testutil.WithAccessToken("a2"))))
	got, err = repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a2", got.AccessToken)
}

func TestCredentialRepo_ZeroExpiryStoredAsNull(t *testing.T) {
	store := testutil.NewTestDB(t)
	repo := NewSQLCredentialRepo(store, store.Dialect)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewCredential("bob@example.com", testutil.WithExpiry(time.Time{}))))
	got, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, got.Expiry.IsZero())
}

func TestCredentialRepo_NotFound(t *testing.T) {
	store := testutil.NewTestDB(t)
	_, err := NewSQLCredentialRepo(store, store.Dialect).GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCredentialRepo_ConcurrentUpsertsLastWriteWins(t *testing.T) {
	store := testutil.NewTestDB(t)
	repo := NewSQLCredentialRepo(store, store.Dialect)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Upsert(ctx, testutil.NewCredential("race@example.com")))
		}()
	}
	wg.Wait()

	got, err := repo.GetByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, got.AccessToken)
}
