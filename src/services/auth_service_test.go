package services_test

import (
	"context"
	"testing"

	"finance/src/models"
	"finance/src/repositories"
	"finance/src/repositories/memory"
	"finance/src/services"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (*services.AuthService, *memory.Store) {
	store := memory.NewStore()
	return services.NewAuthService(store.Accounts(), services.NewBcryptHasher(bcrypt.MinCost), nil), store
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account with starting cash", func(t *testing.T) {
		svc, store := newAuthService()

		account, err := svc.Register(ctx, "alice", "secret", "secret")
		require.NoError(t, err)
		assert.NotZero(t, account.ID)
		assert.True(t, models.StartingCash.Equal(account.Cash))
		assert.NotEqual(t, "secret", account.Hash)

		stored, err := store.Accounts().GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, account.ID, stored.ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, store := newAuthService()
		first, err := svc.Register(ctx, "alice", "secret", "secret")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "alice", "other", "other")
		assert.ErrorIs(t, err, services.ErrDuplicateUsername)

		stored, err := store.Accounts().GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, first.Hash, stored.Hash)
	})

	t.Run("mismatched confirmation creates nothing", func(t *testing.T) {
		svc, store := newAuthService()

		_, err := svc.Register(ctx, "bob", "secret", "secreT")
		assert.ErrorIs(t, err, services.ErrPasswordMismatch)

		_, err = store.Accounts().GetByUsername(ctx, "bob")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _ := newAuthService()

		_, err := svc.Register(ctx, "", "secret", "secret")
		assert.ErrorIs(t, err, services.ErrMissingField)
		assert.EqualError(t, err, "must provide username")

		_, err = svc.Register(ctx, "carol", "", "")
		assert.ErrorIs(t, err, services.ErrMissingField)
		assert.EqualError(t, err, "must provide password")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService()
	registered, err := svc.Register(ctx, "alice", "secret", "secret")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		account, err := svc.Login(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, account.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, "mallory", "secret")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		assert.EqualError(t, err, "invalid username and/or password")
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "secret")
		assert.ErrorIs(t, err, services.ErrMissingField)

		_, err = svc.Login(ctx, "alice", "")
		assert.ErrorIs(t, err, services.ErrMissingField)
	})
}

func TestBcryptHasher(t *testing.T) {
	hasher := services.NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.True(t, hasher.Compare(hash, "secret"))
	assert.False(t, hasher.Compare(hash, "Secret"))
	assert.False(t, hasher.Compare("not a hash", "secret"))
}
