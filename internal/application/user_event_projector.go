package application

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	"github.com/oksasatya/iterate-backend/pkg/mailer"
	"github.com/oksasatya/iterate-backend/pkg/mailer/templates"
)

// ErrBadEvent marks a message that can never be processed; it should be dropped.
var ErrBadEvent = errors.New("malformed user event")

type UserIndexer interface {
	IndexEvent(ctx context.Context, ev entity.UserEvent, mirrorURL string) error
}

type AvatarMirror interface {
	Mirror(ctx context.Context, clerkID, srcURL string) (string, error)
}

type JobMailer interface {
	SendJob(ctx context.Context, job mailer.EmailJob) error
}

// UserEventProjector applies saved-user events to secondary stores: the
// search index, the avatar bucket and the welcome email. Every collaborator
// is optional. Handle is safe to retry; index writes are keyed by clerk id.
type UserEventProjector struct {
	Index   UserIndexer
	Avatars AvatarMirror
	Mail    JobMailer
	AppName string
	AppURL  string
	Logger  *logrus.Logger
}

// Handle decodes one queue message. A non-nil error other than ErrBadEvent
// means the message should be redelivered.
func (p *UserEventProjector) Handle(ctx context.Context, body []byte) error {
	var ev entity.UserEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.ClerkID == "" {
		return ErrBadEvent
	}
	fields := logrus.Fields{"clerk_id": ev.ClerkID, "type": ev.Type}

	mirrorURL := ""
	if p.Avatars != nil && ev.AvatarURL != "" {
		u, err := p.Avatars.Mirror(ctx, ev.ClerkID, ev.AvatarURL)
		if err != nil {
			p.Logger.WithError(err).WithFields(fields).Warn("avatar mirror failed")
		} else {
			mirrorURL = u
		}
	}

	if p.Index != nil {
		if err := p.Index.IndexEvent(ctx, ev, mirrorURL); err != nil {
			return err
		}
	}

	if p.Mail != nil && ev.Type == entity.UserCreated && ev.Email != "" {
		avatar := ev.AvatarURL
		if mirrorURL != "" {
			avatar = mirrorURL
		}
		job := mailer.EmailJob{
			To:       ev.Email,
			Template: templates.Welcome,
			Data: templates.ToMap(templates.EmailData{
				Name:      ev.Name,
				Email:     ev.Email,
				AppName:   p.AppName,
				AppURL:    p.AppURL,
				AvatarURL: avatar,
				JoinedAt:  ev.OccurredAt,
			}),
		}
		if err := p.Mail.SendJob(ctx, job); err != nil {
			return err
		}
		p.Logger.WithFields(fields).Info("welcome email sent")
	}

	p.Logger.WithFields(fields).Debug("user event projected")
	return nil
}
