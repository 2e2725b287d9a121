package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"user_registry/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"user_id", "name", "email", "username", "password_hash", "role", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock, nil)
}

func TestUserRepository_Create(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now().UTC()

	user := &model.User{
		UserID:       "Ab3dEf6hIj9L",
		Name:         "Alice",
		Email:        "a@x.com",
		Username:     "alice1",
		PasswordHash: "$2a$10$hash",
		Role:         model.RoleUser,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ab3dEf6hIj9L", "Alice", "a@x.com", "alice1", "$2a$10$hash", "USER").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := repo.Create(context.Background(), user)

	assert.NoError(t, err)
	assert.Equal(t, now, user.CreatedAt)
	assert.Equal(t, now, user.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"users_email_key", ErrDuplicateEmail},
		{"users_username_key", ErrDuplicateUsername},
		{"users_pkey", ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			mock, repo := newMockRepo(t)

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			err := repo.Create(context.Background(), &model.User{UserID: "Ab3dEf6hIj9L", Role: model.RoleUser})
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create_OtherError(t *testing.T) {
	mock, repo := newMockRepo(t)
	dbErr := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(dbErr)

	err := repo.Create(context.Background(), &model.User{UserID: "Ab3dEf6hIj9L", Role: model.RoleUser})
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("Ab3dEf6hIj9L", "Alice", "a@x.com", "alice1", "$2a$10$hash", "ADMIN", now, now))

	user, err := repo.FindByEmail(context.Background(), "a@x.com")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ab3dEf6hIj9L", user.UserID)
	assert.Equal(t, "alice1", user.Username)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nobody@x.com").
		WillReturnRows(pgxmock.NewRows(userCols))

	user, err := repo.FindByEmail(context.Background(), "nobody@x.com")

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("alice1").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("Ab3dEf6hIj9L", "Alice", "a@x.com", "alice1", "$2a$10$hash", "USER", now, now))

	user, err := repo.FindByUsername(context.Background(), "alice1")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.RoleUser, user.Role)
}

func TestUserRepository_FindByID_Error(t *testing.T) {
	mock, repo := newMockRepo(t)
	dbErr := errors.New("boom")

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id = $1")).
		WithArgs("Ab3dEf6hIj9L").
		WillReturnError(dbErr)

	user, err := repo.FindByID(context.Background(), "Ab3dEf6hIj9L")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, dbErr)
}

func TestUserRepository_FindByID_UnknownRole(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id = $1")).
		WithArgs("Ab3dEf6hIj9L").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("Ab3dEf6hIj9L", "Alice", "a@x.com", "alice1", "$2a$10$hash", "SUPERUSER", now, now))

	user, err := repo.FindByID(context.Background(), "Ab3dEf6hIj9L")

	assert.Nil(t, user)
	assert.Error(t, err)
}

func TestUserRepository_ExistsByID(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("Ab3dEf6hIj9L").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("Zz9yXx8wVv7U").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsByID(context.Background(), "Ab3dEf6hIj9L")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByID(context.Background(), "Zz9yXx8wVv7U")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY created_at")).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("Ab3dEf6hIj9L", "Alice", "a@x.com", "alice1", "$2a$10$hash", "USER", now, now).
			AddRow("Zz9yXx8wVv7U", "Root", "root@x.com", "root", "$2a$10$hash", "ADMIN", now, now))

	users, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice1", users[0].Username)
	assert.Equal(t, model.RoleAdmin, users[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_Empty(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY created_at")).
		WillReturnRows(pgxmock.NewRows(userCols))

	users, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}
