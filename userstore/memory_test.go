package userstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kannan-innovates/zenCode"
)

func TestMemoryCreateAndFind(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	created, err := s.Create(ctx, zencode.NewUser{
		FullName:        "Jane Doe",
		Email:           "jane@x.com",
		PasswordHash:    "$argon2id$...",
		Role:            zencode.RoleCandidate,
		IsEmailVerified: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byEmail, err := s.FindByEmail(ctx, "jane@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "jane@x.com", byID.Email)
}

func TestMemoryMissingLookupsReturnNil(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	u, err := s.FindByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.FindByID(ctx, "999")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestMemoryDuplicateEmail(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, err := s.Create(ctx, zencode.NewUser{FullName: "A", Email: "dup@x.com"})
	require.NoError(t, err)

	_, err = s.Create(ctx, zencode.NewUser{FullName: "B", Email: "dup@x.com"})
	assert.True(t, errors.Is(err, zencode.ErrDuplicateEmail))
}

func TestMemoryPartialUpdate(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	created, err := s.Create(ctx, zencode.NewUser{
		FullName:     "Jane Doe",
		Email:        "jane@x.com",
		PasswordHash: "old-hash",
	})
	require.NoError(t, err)

	blocked := true
	updated, err := s.Update(ctx, created.ID, zencode.UserUpdate{IsBlocked: &blocked})
	require.NoError(t, err)
	assert.True(t, updated.IsBlocked)
	// Fields outside the update are untouched.
	assert.Equal(t, "old-hash", updated.PasswordHash)
	assert.Equal(t, "Jane Doe", updated.FullName)

	_, err = s.Update(ctx, "999", zencode.UserUpdate{IsBlocked: &blocked})
	assert.Error(t, err)
}

func TestMemoryReturnsCopies(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	created, err := s.Create(ctx, zencode.NewUser{FullName: "Jane", Email: "jane@x.com"})
	require.NoError(t, err)

	created.FullName = "mutated"
	fresh, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", fresh.FullName)
}
