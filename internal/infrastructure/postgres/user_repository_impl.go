package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	"github.com/oksasatya/iterate-backend/internal/domain/repository"
	"github.com/oksasatya/iterate-backend/internal/domain/valueobject"
)

const uniqueViolation = "23505"

const userColumns = `id::text, clerk_id, name, avatar_url, created_at, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
// Uniqueness of clerk_id is enforced by the users_clerk_id_key constraint.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByClerkID(ctx context.Context, clerkID valueobject.ClerkID) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE clerk_id = $1
	`, clerkID.String())

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("user", clerkID.String())
	}
	return u, err
}

func (r *UserRepository) Create(ctx context.Context, cmd valueobject.SaveUser) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (clerk_id, name, avatar_url)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		cmd.ClerkID.String(), cmd.Name.String(), cmd.AvatarURL.String())

	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperror.Duplicate("user", cmd.ClerkID.String(), err)
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, cmd valueobject.SaveUser) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, avatar_url = $3, updated_at = now()
		WHERE clerk_id = $1
		RETURNING `+userColumns,
		cmd.ClerkID.String(), cmd.Name.String(), cmd.AvatarURL.String())

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("user", cmd.ClerkID.String())
	}
	return u, err
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.ClerkID, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
