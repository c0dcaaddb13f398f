package handlers

import (
	"strings"

	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	"github.com/oksasatya/iterate-backend/internal/domain/valueobject"
)

// webhookUserPayload is the identity provider's user event body. Only the
// fields the service stores or forwards are decoded.
type webhookUserPayload struct {
	Type string          `json:"type" binding:"required,oneof=user.created user.updated"`
	Data webhookUserData `json:"data"`
}

type webhookUserData struct {
	ID                    string         `json:"id" binding:"required,max=255"`
	Username              string         `json:"username" binding:"max=255"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	ImageURL              string         `json:"image_url" binding:"omitempty,url"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []emailAddress `json:"email_addresses"`
}

type emailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// displayName prefers the username, then the full name, then the local part
// of the primary email, then the clerk id.
func (d webhookUserData) displayName() string {
	if n := strings.TrimSpace(d.Username); n != "" {
		return n
	}
	if n := strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName)); n != "" {
		return n
	}
	if local, _, ok := strings.Cut(d.primaryEmail(), "@"); ok && local != "" {
		return local
	}
	return d.ID
}

func (d webhookUserData) primaryEmail() string {
	for _, e := range d.EmailAddresses {
		if e.ID == d.PrimaryEmailAddressID {
			return strings.TrimSpace(e.EmailAddress)
		}
	}
	if d.PrimaryEmailAddressID == "" && len(d.EmailAddresses) > 0 {
		return strings.TrimSpace(d.EmailAddresses[0].EmailAddress)
	}
	return ""
}

func (p webhookUserPayload) toCommand() (valueobject.SaveUser, error) {
	return valueobject.NewSaveUser(p.Data.ID, p.Data.displayName(), p.Data.ImageURL)
}

// UserResponse is the external shape of a stored user.
type UserResponse struct {
	ID        string `json:"id"`
	ClerkID   string `json:"clerkId"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

func toUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		ClerkID:   u.ClerkID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

func toUserResponses(us []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(us))
	for i := range us {
		out = append(out, toUserResponse(&us[i]))
	}
	return out
}
