package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/librarianapp/librarian-server/internal/auth"
	"github.com/librarianapp/librarian-server/internal/domain"
	domainerrors "github.com/librarianapp/librarian-server/internal/errors"
	"github.com/librarianapp/librarian-server/internal/store"
)

// UserService manages the user roster.
type UserService struct {
	store  store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// CreateUserRequest contains the fields for a new account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
	IsAdmin  bool   `json:"is_admin"`
}

// CreateUser adds an account to the roster. The password is hashed
// before it touches the store; the plaintext is never persisted.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return nil, domainerrors.AlreadyExists("Username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User created", "user_id", user.ID, "username", user.Username, "is_admin", user.IsAdmin)
	}

	return user, nil
}

// ListUsers returns accounts matching the filter.
func (s *UserService) ListUsers(ctx context.Context, filter store.UserFilter) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns a single account.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
