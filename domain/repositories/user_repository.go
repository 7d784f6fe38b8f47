package repositories

import (
	"context"

	"todo-api/domain/models"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create assigns user.ID. A taken email yields ErrConflict.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByEmail matches the email exactly.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
