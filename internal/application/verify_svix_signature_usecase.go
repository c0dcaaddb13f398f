package application

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
	"github.com/oksasatya/iterate-backend/internal/domain/entity"
)

// SignatureVerifier checks a raw body against the asserted webhook headers.
type SignatureVerifier interface {
	Verify(rawBody []byte, headers entity.WebhookHeaders) error
}

type VerifySvixSignatureUseCase struct {
	Verifier SignatureVerifier
	Logger   *logrus.Logger
}

func NewVerifySvixSignatureUseCase(v SignatureVerifier, logger *logrus.Logger) *VerifySvixSignatureUseCase {
	return &VerifySvixSignatureUseCase{Verifier: v, Logger: logger}
}

// Execute fails with ErrMissingHeaders before touching the verifier when any
// header is absent. Configuration errors pass through unchanged; every other
// verifier failure is reported as ErrSignatureInvalid.
func (u *VerifySvixSignatureUseCase) Execute(env entity.WebhookEnvelope) error {
	if !env.Headers.Complete() {
		return apperror.MissingHeaders()
	}
	if u.Verifier == nil {
		return apperror.Configuration("webhook verifier is not configured")
	}
	if len(env.RawBody) == 0 {
		return apperror.SignatureInvalid("raw body is missing", nil)
	}

	err := u.Verifier.Verify(env.RawBody, env.Headers)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperror.ErrConfiguration):
		if u.Logger != nil {
			u.Logger.WithError(err).Error("webhook verifier misconfigured")
		}
		return err
	case errors.Is(err, apperror.ErrSignatureInvalid):
		return err
	default:
		return apperror.SignatureInvalid("signature verification failed", err)
	}
}
