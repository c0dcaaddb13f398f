package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	repo "github.com/oksasatya/iterate-backend/internal/domain/repository"
	"github.com/oksasatya/iterate-backend/internal/domain/valueobject"
)

// SaveUsersUseCase creates or updates a user keyed by clerk id.
// Repeated commands converge on one row; there is no retry here.
type SaveUsersUseCase struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
}

func NewSaveUsersUseCase(r repo.UserRepository, logger *logrus.Logger) *SaveUsersUseCase {
	return &SaveUsersUseCase{Repo: r, Logger: logger}
}

func (u *SaveUsersUseCase) Execute(ctx context.Context, cmd valueobject.SaveUser) (*entity.User, error) {
	existing, err := u.Repo.FindByClerkID(ctx, cmd.ClerkID)
	switch {
	case err == nil:
		return u.update(ctx, existing, cmd)
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, apperror.Persistence("find user", err)
	}

	created, err := u.Repo.Create(ctx, cmd)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, apperror.ErrDuplicate) {
		return nil, apperror.Persistence("create user", err)
	}

	// a concurrent delivery inserted the row first
	if u.Logger != nil {
		u.Logger.WithField("clerk_id", cmd.ClerkID.String()).Debug("create lost race, updating instead")
	}
	return u.update(ctx, nil, cmd)
}

func (u *SaveUsersUseCase) update(ctx context.Context, existing *entity.User, cmd valueobject.SaveUser) (*entity.User, error) {
	if existing != nil && existing.Name == cmd.Name.String() && existing.AvatarURL == cmd.AvatarURL.String() {
		return existing, nil
	}
	updated, err := u.Repo.Update(ctx, cmd)
	if err != nil {
		return nil, apperror.Persistence("update user", err)
	}
	return updated, nil
}
