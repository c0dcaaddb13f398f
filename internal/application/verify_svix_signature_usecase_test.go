package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	"github.com/oksasatya/iterate-backend/internal/testutil"
)

var testHeaders = entity.WebhookHeaders{
	MessageID: "test-svix-id",
	Timestamp: "test-timestamp",
	Signature: "test-signature",
}

func TestVerifySvix_PassesRawBodyAndHeaders(t *testing.T) {
	v := new(testutil.MockVerifier)
	v.On("Verify", []byte("test-body"), testHeaders).Return(nil).Once()
	uc := NewVerifySvixSignatureUseCase(v, nil)

	err := uc.Execute(entity.WebhookEnvelope{Headers: testHeaders, RawBody: []byte("test-body")})

	assert.NoError(t, err)
	v.AssertExpectations(t)
}

func TestVerifySvix_MissingHeadersSkipVerifier(t *testing.T) {
	for _, h := range []entity.WebhookHeaders{
		{},
		{MessageID: "id", Timestamp: "ts"},
		{MessageID: "id", Signature: "sig"},
		{Timestamp: "ts", Signature: "sig"},
	} {
		v := new(testutil.MockVerifier)
		uc := NewVerifySvixSignatureUseCase(v, nil)

		err := uc.Execute(entity.WebhookEnvelope{Headers: h, RawBody: []byte("{}")})

		assert.True(t, errors.Is(err, apperror.ErrMissingHeaders))
		v.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	}
}

func TestVerifySvix_MissingRawBodyIsUnauthorized(t *testing.T) {
	v := new(testutil.MockVerifier)
	uc := NewVerifySvixSignatureUseCase(v, nil)

	err := uc.Execute(entity.WebhookEnvelope{Headers: testHeaders})

	assert.True(t, errors.Is(err, apperror.ErrSignatureInvalid))
	v.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestVerifySvix_DomainErrorPassesThrough(t *testing.T) {
	v := new(testutil.MockVerifier)
	domainErr := apperror.SignatureInvalid("no matching signature found", nil)
	v.On("Verify", mock.Anything, mock.Anything).Return(domainErr)
	uc := NewVerifySvixSignatureUseCase(v, nil)

	err := uc.Execute(entity.WebhookEnvelope{Headers: testHeaders, RawBody: []byte("test-body")})

	assert.Same(t, domainErr, err)
}

func TestVerifySvix_GenericErrorBecomesSignatureInvalid(t *testing.T) {
	v := new(testutil.MockVerifier)
	other := errors.New("some other error")
	v.On("Verify", mock.Anything, mock.Anything).Return(other)
	uc := NewVerifySvixSignatureUseCase(v, nil)

	err := uc.Execute(entity.WebhookEnvelope{Headers: testHeaders, RawBody: []byte("test-body")})

	assert.True(t, errors.Is(err, apperror.ErrSignatureInvalid))
	assert.True(t, errors.Is(err, other))
}

func TestVerifySvix_ConfigurationErrorStaysDistinct(t *testing.T) {
	v := new(testutil.MockVerifier)
	v.On("Verify", mock.Anything, mock.Anything).Return(apperror.Configuration("webhook secret is not configured"))
	uc := NewVerifySvixSignatureUseCase(v, nil)

	err := uc.Execute(entity.WebhookEnvelope{Headers: testHeaders, RawBody: []byte("test-body")})

	assert.True(t, errors.Is(err, apperror.ErrConfiguration))
	assert.False(t, errors.Is(err, apperror.ErrSignatureInvalid))
}

func TestVerifySvix_NilVerifierIsConfigurationError(t *testing.T) {
	uc := NewVerifySvixSignatureUseCase(nil, nil)

	err := uc.Execute(entity.WebhookEnvelope{Headers: testHeaders, RawBody: []byte("x")})

	assert.True(t, errors.Is(err, apperror.ErrConfiguration))
}
