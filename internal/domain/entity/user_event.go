package entity

import "time"

// Identity provider event types accepted by the users webhook.
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
)

// UserEvent is published after a user is persisted. Email is carried for
// downstream notifications only; it is not part of the stored record.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	ClerkID    string    `json:"clerk_id"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatar_url"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewUserEvent(eventType string, u *User, email string, at time.Time) UserEvent {
	return UserEvent{
		Type:       eventType,
		UserID:     u.ID,
		ClerkID:    u.ClerkID,
		Name:       u.Name,
		AvatarURL:  u.AvatarURL,
		Email:      email,
		OccurredAt: at.UTC(),
	}
}
