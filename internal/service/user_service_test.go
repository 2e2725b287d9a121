package service

import (
	"context"
	"errors"
	"testing"

	"user_registry/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsers(t *testing.T) {
	repo := new(mockUserRepo)
	s := NewUserService(repo)
	ctx := context.Background()

	repo.On("List", ctx).Return([]model.User{{UserID: "Ab3dEf6hIj9L"}, {UserID: "Zz9yXx8wVv7U"}}, nil).Once()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	dbErr := errors.New("db down")
	repo.On("List", ctx).Return(nil, dbErr).Once()

	_, err = s.ListUsers(ctx)
	assert.ErrorIs(t, err, dbErr)
}
