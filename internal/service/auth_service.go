package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"user_registry/internal/model"
	"user_registry/internal/repository"
	"user_registry/internal/utils"
)

const (
	userIDLength = 12
	// maxIDAttempts bounds identifier regeneration on collision.
	maxIDAttempts = 5
)

// AuthService provides registration, login and the two request gates
type AuthService interface {
	Register(ctx context.Context, name, email, password, username string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Authenticate(ctx context.Context, token string) (string, error)
	Authorize(ctx context.Context, token string, allowedRoles []model.Role) (model.Identity, error)
}

type authService struct {
	userRepo          repository.UserRepository
	jwtUtil           *utils.JWTUtil
	initialAdminEmail string
	newID             func(n int) (string, error)
}

// NewAuthService creates a new AuthService. A user registering with
// initialAdminEmail (when non-empty) is created with the ADMIN role.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, initialAdminEmail string) AuthService {
	return &authService{
		userRepo:          userRepo,
		jwtUtil:           jwtUtil,
		initialAdminEmail: initialAdminEmail,
		newID:             utils.RandomAlphanumeric,
	}
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, name, email, password, username string) (*model.User, error) {
	name, email, username = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(username)
	if name == "" || email == "" || password == "" || username == "" {
		return nil, ErrMissingFields
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existingUser != nil {
		return nil, ErrDuplicateEmail
	}

	usernameTaken, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing username: %w", err)
	}
	if usernameTaken != nil {
		return nil, ErrDuplicateUsername
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userRole := model.RoleUser
	if s.initialAdminEmail != "" && strings.EqualFold(email, s.initialAdminEmail) {
		userRole = model.RoleAdmin
		slog.InfoContext(ctx, "registering initial admin", "email", email)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         userRole,
	}

	for attempt := 1; ; attempt++ {
		user.UserID, err = s.generateUserID(ctx)
		if err != nil {
			return nil, err
		}

		err = s.userRepo.Create(ctx, user)
		if err == nil {
			return user, nil
		}

		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		case errors.Is(err, repository.ErrDuplicateID) && attempt < maxIDAttempts:
			// another registration claimed the id between the check and the insert
			continue
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
}

// generateUserID draws random identifiers until one is unused in the store.
func (s *authService) generateUserID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID(userIDLength)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInternal, err)
		}

		exists, err := s.userRepo.ExistsByID(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
		slog.DebugContext(ctx, "generated user id collided, retrying", "attempt", attempt+1)
	}
	return "", fmt.Errorf("%w: no free user id after %d attempts", ErrInternal, maxIDAttempts)
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return user, token, nil
}

// Authenticate verifies token and confirms its user still exists.
func (s *authService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}

	user, err := s.userFromToken(ctx, token)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidToken
	}
	return user.UserID, nil
}

// Authorize resolves the caller's stored role and checks it against allowedRoles.
func (s *authService) Authorize(ctx context.Context, token string, allowedRoles []model.Role) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, ErrMissingCredential
	}

	user, err := s.userFromToken(ctx, token)
	if err != nil {
		return model.Identity{}, err
	}
	if user == nil {
		return model.Identity{}, ErrUnknownUser
	}

	if !slices.Contains(allowedRoles, user.Role) {
		return model.Identity{}, ErrForbidden
	}

	return model.Identity{UserID: user.UserID, Role: user.Role}, nil
}

// userFromToken verifies token and loads the user it names; (nil, nil) when
// the token is valid but the user is gone.
func (s *authService) userFromToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}
	return user, nil
}
