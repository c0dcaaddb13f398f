package helpers

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pub := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return priv, string(pub)
}

func signSession(t *testing.T, key *rsa.PrivateKey, claims SessionClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func validClaims(sub, azp string) SessionClaims {
	now := time.Now()
	return SessionClaims{
		SessionID:       "sess_1",
		AuthorizedParty: azp,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Second)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
}

func TestSessionVerifier_ValidToken(t *testing.T) {
	priv, pub := newSessionKey(t)
	v, err := NewSessionVerifier(pub, []string{"http://localhost:3000"})
	require.NoError(t, err)

	claims, err := v.Parse(signSession(t, priv, validClaims("user_123", "http://localhost:3000")))

	require.NoError(t, err)
	assert.Equal(t, "user_123", claims.Subject)
	assert.Equal(t, "sess_1", claims.SessionID)
}

func TestSessionVerifier_EscapedNewlinesInKey(t *testing.T) {
	priv, pub := newSessionKey(t)
	v, err := NewSessionVerifier(strings.ReplaceAll(pub, "\n", `\n`), nil)
	require.NoError(t, err)

	_, err = v.Parse(signSession(t, priv, validClaims("user_123", "")))

	assert.NoError(t, err)
}

func TestSessionVerifier_Rejections(t *testing.T) {
	priv, pub := newSessionKey(t)
	other, _ := newSessionKey(t)
	v, err := NewSessionVerifier(pub, []string{"https://app.example.com"})
	require.NoError(t, err)

	expired := validClaims("user_123", "")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	noExp := validClaims("user_123", "")
	noExp.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong key", signSession(t, other, validClaims("user_123", ""))},
		{"expired", signSession(t, priv, expired)},
		{"no expiry", signSession(t, priv, noExp)},
		{"missing subject", signSession(t, priv, validClaims("", ""))},
		{"foreign party", signSession(t, priv, validClaims("user_123", "https://evil.example.com"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Parse(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidSession))
		})
	}
}

func TestSessionVerifier_RejectsHMACToken(t *testing.T) {
	_, pub := newSessionKey(t)
	v, err := NewSessionVerifier(pub, nil)
	require.NoError(t, err)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("user_123", "")).SignedString([]byte(pub))
	require.NoError(t, err)

	_, err = v.Parse(tok)

	assert.Error(t, err)
}

func TestNewSessionVerifier_MissingKey(t *testing.T) {
	v, err := NewSessionVerifier("  ", nil)

	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrSessionKeyMissing)
}

func TestNilSessionVerifier(t *testing.T) {
	var v *SessionVerifier

	_, err := v.Parse("x")

	assert.ErrorIs(t, err, ErrSessionKeyMissing)
}
