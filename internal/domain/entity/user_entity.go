package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// ID is assigned by storage and never changes; ClerkID is unique and is the
// upsert key for identity provider webhooks.
type User struct {
	ID        string
	ClerkID   string
	Name      string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
