// Package valueobject holds immutable, validated user fields.
// Constructors fail fast; a value that exists is a valid value.
package valueobject

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
)

const maxFieldLength = 255

var validate = validator.New()

// ClerkID is the identity provider's stable user identifier.
type ClerkID struct{ value string }

func NewClerkID(v string) (ClerkID, error) {
	v = strings.TrimSpace(v)
	if err := validate.Var(v, "required,max=255,printascii"); err != nil || strings.Contains(v, " ") {
		return ClerkID{}, apperror.ValidationFailed("clerk_id", "clerk id must be a non-empty identifier")
	}
	return ClerkID{value: v}, nil
}

func (c ClerkID) String() string { return c.value }

// Name is the user's display name.
type Name struct{ value string }

func NewName(v string) (Name, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return Name{}, apperror.ValidationFailed("name", "name is required")
	}
	if len([]rune(v)) > maxFieldLength {
		return Name{}, apperror.ValidationFailed("name", "name exceeds maximum length")
	}
	if !printable(v) {
		return Name{}, apperror.ValidationFailed("name", "name contains invalid characters")
	}
	return Name{value: v}, nil
}

func (n Name) String() string { return n.value }

// printable rejects invalid UTF-8 and control characters, NUL included,
// which Postgres TEXT cannot store.
func printable(v string) bool {
	if !utf8.ValidString(v) {
		return false
	}
	return strings.IndexFunc(v, unicode.IsControl) < 0
}

// AvatarURL is either empty or an absolute http(s) URL.
type AvatarURL struct{ value string }

func NewAvatarURL(v string) (AvatarURL, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return AvatarURL{}, nil
	}
	invalid := apperror.ValidationFailed("avatar_url", "avatar url must be an http or https URL")
	if err := validate.Var(v, "url,max=2048"); err != nil {
		return AvatarURL{}, invalid
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return AvatarURL{}, invalid
	}
	return AvatarURL{value: v}, nil
}

func (a AvatarURL) String() string { return a.value }

// SaveUser is the command to create or update a user keyed by ClerkID.
type SaveUser struct {
	ClerkID   ClerkID
	Name      Name
	AvatarURL AvatarURL
}

// NewSaveUser validates all three fields and returns the first failure.
func NewSaveUser(clerkID, name, avatarURL string) (SaveUser, error) {
	id, err := NewClerkID(clerkID)
	if err != nil {
		return SaveUser{}, err
	}
	n, err := NewName(name)
	if err != nil {
		return SaveUser{}, err
	}
	a, err := NewAvatarURL(avatarURL)
	if err != nil {
		return SaveUser{}, err
	}
	return SaveUser{ClerkID: id, Name: n, AvatarURL: a}, nil
}
