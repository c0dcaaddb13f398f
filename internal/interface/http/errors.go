package handlers

import (
	"errors"
	"net/http"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
)

// statusFor maps an error kind to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrMissingHeaders):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSignatureInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrPayloadValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, apperror.ErrConfiguration):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage is what the caller sees; internal causes stay in the logs.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrMissingHeaders):
		return apperror.MissingHeadersMessage
	case errors.Is(err, apperror.ErrSignatureInvalid):
		return "invalid webhook signature"
	case errors.Is(err, apperror.ErrPayloadValidation):
		return "invalid payload"
	case errors.Is(err, apperror.ErrPersistence):
		return "failed to save user"
	case errors.Is(err, apperror.ErrConfiguration):
		return "webhook verification is not configured"
	default:
		return "internal server error"
	}
}
