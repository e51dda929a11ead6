package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintree/backend/internal/memstore"
	"kintree/backend/pkg/apperrors"
)

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	s := NewService(memstore.New())
	ctx := context.Background()

	first, err := s.Register(ctx, "Alice@Example.com", "Alice", "password123")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.NotEqual(t, "password123", first.PasswordHash)

	second, err := s.Register(ctx, "bob@example.com", "Bob", "password123")
	require.NoError(t, err)
	assert.False(t, second.IsAdmin)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := NewService(memstore.New())
	ctx := context.Background()

	_, err := s.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)

	// Case-folded, so the variant collides too.
	_, err = s.Register(ctx, "ALICE@example.com", "Other", "password123")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRegisterPasswordRules(t *testing.T) {
	s := NewService(memstore.New())
	ctx := context.Background()

	_, err := s.Register(ctx, "short@example.com", "S", "seven77")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'x'
	}
	_, err = s.Register(ctx, "long@example.com", "L", string(long))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = s.Register(ctx, "", "N", "password123")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	s := NewService(memstore.New())
	ctx := context.Background()

	_, err := s.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Alice", u.DisplayName)

	// Wrong password and unknown email look identical.
	u, err = s.Authenticate(ctx, "alice@example.com", "wrongpass")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.Authenticate(ctx, "nobody@example.com", "password123")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGetByID(t *testing.T) {
	s := NewService(memstore.New())
	ctx := context.Background()

	created, err := s.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)

	u, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, u.Email)

	_, err = s.GetByID(ctx, "missing")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
