package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Type string `json:"type" binding:"required,oneof=user.created user.updated"`
	Data struct {
		ID       string `json:"id" binding:"required,max=8"`
		ImageURL string `json:"image_url" binding:"omitempty,url"`
	} `json:"data"`
	Size int `form:"size" binding:"omitempty,max=50"`
}

func TestToDetails_ValidationErrors(t *testing.T) {
	Init()
	var s sample
	s.Type = "session.created"
	s.Data.ID = "user_123456789"
	s.Data.ImageURL = "not a url"
	s.Size = 80

	details := ToDetails(Struct(&s))

	require.Len(t, details, 4)
	assert.Equal(t, "must be one of: user.created, user.updated", details["type"])
	assert.Equal(t, "must be at most 8 characters long", details["data.id"])
	assert.Equal(t, "must be a valid URL", details["data.image_url"])
	assert.Equal(t, "must be at most 50", details["size"])
}

func TestToDetails_Required(t *testing.T) {
	Init()
	var s sample

	details := ToDetails(Struct(&s))

	assert.Equal(t, "is required", details["type"])
	assert.Equal(t, "is required", details["data.id"])
}

func TestToDetails_InvalidJSON(t *testing.T) {
	var s sample
	err := json.Unmarshal([]byte(`{"type":`), &s)

	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestToDetails_Nil(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}
