package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMatchThroughWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("save user: %w", Persistence("create user", cause))

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrSignatureInvalid))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "persistence: create user failed: connection reset", appErr.Error())
}

func TestMissingHeadersMessage(t *testing.T) {
	err := MissingHeaders()

	assert.Equal(t, "Missing verification headers for webhook verification", err.Error())
	assert.True(t, errors.Is(err, ErrMissingHeaders))
}

func TestValidationFailedCarriesField(t *testing.T) {
	err := ValidationFailed("avatar_url", "avatar url must be a valid URL")

	assert.Equal(t, "avatar_url", err.Field)
	assert.True(t, errors.Is(err, ErrPayloadValidation))
}
