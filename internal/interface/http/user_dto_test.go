package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		data webhookUserData
		want string
	}{
		{"username", webhookUserData{ID: "user_1", Username: "jdoe", FirstName: "John"}, "jdoe"},
		{"full name", webhookUserData{ID: "user_1", FirstName: " John ", LastName: "Doe"}, "John Doe"},
		{"first name only", webhookUserData{ID: "user_1", FirstName: "John"}, "John"},
		{"primary email", webhookUserData{
			ID:                    "user_1",
			PrimaryEmailAddressID: "idn_2",
			EmailAddresses: []emailAddress{
				{ID: "idn_1", EmailAddress: "old@example.com"},
				{ID: "idn_2", EmailAddress: "jane@example.com"},
			},
		}, "jane"},
		{"clerk id", webhookUserData{ID: "user_1"}, "user_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.data.displayName())
		})
	}
}

func TestPrimaryEmail(t *testing.T) {
	d := webhookUserData{
		PrimaryEmailAddressID: "idn_9",
		EmailAddresses:        []emailAddress{{ID: "idn_1", EmailAddress: "a@example.com"}},
	}
	assert.Equal(t, "", d.primaryEmail())

	d.PrimaryEmailAddressID = ""
	assert.Equal(t, "a@example.com", d.primaryEmail())
}
