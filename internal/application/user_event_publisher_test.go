package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	"github.com/oksasatya/iterate-backend/internal/testutil"
)

func TestUserEventPublisher_Publish(t *testing.T) {
	pub := &testutil.MockPublisher{}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := NewUserEventPublisher(pub, nil)
	p.Now = func() time.Time { return at }
	u := &entity.User{ID: "id-1", ClerkID: "user_1", Name: "one", AvatarURL: "http://example.com/a.png"}

	err := p.Publish(context.Background(), entity.UserCreated, u, "one@example.com")

	require.NoError(t, err)
	require.Len(t, pub.Published, 1)
	assert.Equal(t, entity.UserEvent{
		Type:       entity.UserCreated,
		UserID:     "id-1",
		ClerkID:    "user_1",
		Name:       "one",
		AvatarURL:  "http://example.com/a.png",
		Email:      "one@example.com",
		OccurredAt: at,
	}, pub.Published[0])
}

func TestUserEventPublisher_FailureIsReturned(t *testing.T) {
	pub := &testutil.MockPublisher{Err: errors.New("channel closed")}
	p := NewUserEventPublisher(pub, nil)

	err := p.Publish(context.Background(), entity.UserUpdated, &entity.User{ClerkID: "user_1"}, "")

	assert.Error(t, err)
}

func TestUserEventPublisher_NilIsNoop(t *testing.T) {
	var p *UserEventPublisher

	assert.NoError(t, p.Publish(context.Background(), entity.UserCreated, &entity.User{}, ""))
	assert.NoError(t, NewUserEventPublisher(nil, nil).Publish(context.Background(), entity.UserCreated, &entity.User{}, ""))
}
