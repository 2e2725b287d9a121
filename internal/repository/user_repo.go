package repository

import (
	"context"
	"errors"
	"fmt"

	"user_registry/internal/model"
	"user_registry/internal/observability"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateID       = errors.New("user id already in use")
)

const uniqueViolation = "23505"

// DBTX is the subset of pgx used by the repositories.
// *pgxpool.Pool, pgx.Tx and pgxmock pools all satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
}

type userRepository struct {
	db   DBTX
	prom *observability.Prom
}

// NewUserRepository creates a new UserRepository. prom may be nil.
func NewUserRepository(db DBTX, prom *observability.Prom) UserRepository {
	return &userRepository{db: db, prom: prom}
}

const userColumns = `user_id, name, email, username, password_hash, role, created_at, updated_at`

// Create inserts a new user into the database and fills in its timestamps
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (user_id, name, email, username, password_hash, role)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`

	err := r.prom.ObserveDB("users.create", func() error {
		return r.db.QueryRow(ctx, sql, user.UserID, user.Name, user.Email, user.Username, user.PasswordHash, string(user.Role)).
			Scan(&user.CreatedAt, &user.UpdatedAt)
	})
	if err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email. A missing user is (nil, nil).
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "users.find_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByUsername retrieves a user by username. A missing user is (nil, nil).
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "users.find_by_username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindByID retrieves a user by their ID. A missing user is (nil, nil).
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "users.find_by_id", `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
}

// ExistsByID reports whether any record already uses id
func (r *userRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.prom.ObserveDB("users.exists_by_id", func() error {
		return r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, id).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check user id: %w", err)
	}
	return exists, nil
}

// List returns every user, oldest first
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}

	err := r.prom.ObserveDB("users.list", func() error {
		rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, user_id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, *u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) findOne(ctx context.Context, op, sql string, arg any) (*model.User, error) {
	var user *model.User
	err := r.prom.ObserveDB(op, func() error {
		u, err := scanUser(r.db.QueryRow(ctx, sql, arg))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil // User not found is not an error for this method's contract
			}
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", op, err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	var role string
	err := row.Scan(&user.UserID, &user.Name, &user.Email, &user.Username, &user.PasswordHash, &role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if user.Role, err = model.ParseRole(role); err != nil {
		return nil, fmt.Errorf("user %s: %w", user.UserID, err)
	}
	return user, nil
}

func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrDuplicateEmail
	case "users_username_key":
		return ErrDuplicateUsername
	case "users_pkey":
		return ErrDuplicateID
	}
	return nil
}
