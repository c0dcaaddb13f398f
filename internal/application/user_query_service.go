package application

import (
	"context"
	"errors"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	repo "github.com/oksasatya/iterate-backend/internal/domain/repository"
	"github.com/oksasatya/iterate-backend/internal/domain/valueobject"
)

var ErrUserNotFound = errors.New("user not found")

// UserSearcher finds users in a secondary index.
type UserSearcher interface {
	Search(ctx context.Context, q string, size int) ([]entity.User, error)
}

// UserQueryService serves read-only lookups for signed-in callers.
type UserQueryService struct {
	Repo     repo.UserRepository
	Searcher UserSearcher
}

func NewUserQueryService(r repo.UserRepository, s UserSearcher) *UserQueryService {
	return &UserQueryService{Repo: r, Searcher: s}
}

func (s *UserQueryService) GetByClerkID(ctx context.Context, clerkID string) (*entity.User, error) {
	id, err := valueobject.NewClerkID(clerkID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.FindByClerkID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperror.Persistence("find user", err)
	}
	return u, nil
}

// SearchUsers returns an empty result when no index is configured.
func (s *UserQueryService) SearchUsers(ctx context.Context, q string, size int) ([]entity.User, error) {
	if s.Searcher == nil {
		return []entity.User{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Searcher.Search(ctx, q, size)
}
