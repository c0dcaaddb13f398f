package repository

import (
	"context"

	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	"github.com/oksasatya/iterate-backend/internal/domain/valueobject"
)

// UserRepository defines the interface for user-related database operations.
//
// FindByClerkID returns an error matching apperror.ErrNotFound when no row exists.
// Create returns an error matching apperror.ErrDuplicate when the clerk id is
// already taken (uniqueness is enforced by storage, not by callers).
type UserRepository interface {
	FindByClerkID(ctx context.Context, clerkID valueobject.ClerkID) (*entity.User, error)
	Create(ctx context.Context, u valueobject.SaveUser) (*entity.User, error)
	Update(ctx context.Context, u valueobject.SaveUser) (*entity.User, error)
}
