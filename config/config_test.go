package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", "")
	t.Setenv("SVIX_TOLERANCE", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.SvixTolerance)
	assert.Equal(t, "user-events", cfg.RabbitMQUserEventsQueue)
	assert.False(t, cfg.MailSendEnabled)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SVIX_TOLERANCE", "five minutes")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.SvixTolerance)
}

func TestValidate_MissingSecretIsConfigurationError(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost/db", SvixTolerance: time.Minute}

	err := cfg.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConfiguration))
	assert.Contains(t, err.Error(), "CLERK_WEBHOOK_SECRET")
}

func TestValidate_MissingDatabase(t *testing.T) {
	cfg := &Config{ClerkWebhookSecret: "whsec_abc", SvixTolerance: time.Minute}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidate_OK(t *testing.T) {
	cfg := &Config{ClerkWebhookSecret: "whsec_abc", DBHost: "db", DBUser: "u", DBPassword: "p", DBPort: "5432", DBName: "n", DBSSLMode: "disable", SvixTolerance: time.Minute}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", cfg.PostgresDSN())
}

func TestAuthorizedParties_FallsBackToCORS(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://a.test, http://b.test ,"}

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AuthorizedParties())

	cfg.ClerkAuthorizedParties = "http://c.test"
	assert.Equal(t, []string{"http://c.test"}, cfg.AuthorizedParties())
}
