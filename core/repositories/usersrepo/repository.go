// Package usersrepo stores user accounts for the credential service.
package usersrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// Set of error values for user operations.
var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
)

// Storer is the user persistence contract. Create must return
// repositories.ErrDuplicate when the username exists.
type Storer interface {
	Create(ctx context.Context, user User) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}

// Repository provides access to user storage.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository creates a new User repository
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create assigns a new id and stores the user.
func (r *Repository) Create(ctx context.Context, input CreateUser) (User, error) {
	user, err := r.storer.Create(ctx, User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return User{}, fmt.Errorf("user repository create: %w", ErrDuplicateUsername)
		}
		return User{}, fmt.Errorf("user repository create: %w", err)
	}

	r.log.InfoContext(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// GetByUsername looks a user up by exact username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (User, error) {
	user, err := r.storer.GetByUsername(ctx, username)
	if err != nil {
		return User{}, storeErr("get by username", err)
	}
	return user, nil
}

// GetByID looks a user up by id.
func (r *Repository) GetByID(ctx context.Context, id string) (User, error) {
	user, err := r.storer.GetByID(ctx, id)
	if err != nil {
		return User{}, storeErr("get by id", err)
	}
	return user, nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("user repository %s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("user repository %s: %w", op, err)
}
