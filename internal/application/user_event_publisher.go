package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/iterate-backend/internal/domain/entity"
)

// MessagePublisher sends a JSON document to a queue.
type MessagePublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserEventPublisher announces saved users to downstream consumers.
// Publishing is best-effort and never affects the saved state.
type UserEventPublisher struct {
	Pub    MessagePublisher
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewUserEventPublisher(pub MessagePublisher, logger *logrus.Logger) *UserEventPublisher {
	return &UserEventPublisher{Pub: pub, Logger: logger, Now: time.Now}
}

func (p *UserEventPublisher) Publish(ctx context.Context, eventType string, u *entity.User, email string) error {
	if p == nil || p.Pub == nil || u == nil {
		return nil
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	err := p.Pub.PublishJSON(c, entity.NewUserEvent(eventType, u, email, now()))
	if err != nil && p.Logger != nil {
		p.Logger.WithError(err).WithFields(logrus.Fields{
			"clerk_id": u.ClerkID,
			"type":     eventType,
		}).Warn("publish user event failed")
	}
	return err
}
