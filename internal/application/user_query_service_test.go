package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	"github.com/oksasatya/iterate-backend/internal/testutil"
)

func TestGetByClerkID(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	repo.AddUser(&entity.User{ID: "id-1", ClerkID: "user_1", Name: "one"})
	svc := NewUserQueryService(repo, nil)

	u, err := svc.GetByClerkID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", u.ID)

	_, err = svc.GetByClerkID(context.Background(), "user_2")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetByClerkID(context.Background(), "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetByClerkID_StorageFailure(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	repo.FindErr = errors.New("timeout")
	svc := NewUserQueryService(repo, nil)

	_, err := svc.GetByClerkID(context.Background(), "user_1")

	assert.ErrorIs(t, err, apperror.ErrPersistence)
}

func TestSearchUsers(t *testing.T) {
	searcher := &testutil.MockSearcher{Results: []entity.User{{ClerkID: "user_1"}}}
	svc := NewUserQueryService(testutil.NewMockUserRepository(), searcher)

	res, err := svc.SearchUsers(context.Background(), "ada", 500)

	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, "ada", searcher.Query)
	assert.Equal(t, 10, searcher.Size)
}

func TestSearchUsers_NoIndex(t *testing.T) {
	svc := NewUserQueryService(testutil.NewMockUserRepository(), nil)

	res, err := svc.SearchUsers(context.Background(), "ada", 5)

	require.NoError(t, err)
	assert.Empty(t, res)
}
