package helpers

import (
	"crypto/rsa"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is where the frontend keeps the Clerk session token.
const SessionCookie = "__session"

var (
	ErrSessionKeyMissing = errors.New("session verification key not configured")
	ErrInvalidSession    = errors.New("invalid session token")
)

// SessionClaims are the Clerk session token claims the API relies on.
// Subject is the clerk user id.
type SessionClaims struct {
	SessionID       string `json:"sid"`
	AuthorizedParty string `json:"azp,omitempty"`
	jwt.RegisteredClaims
}

// SessionVerifier validates RS256 session tokens against a PEM public key,
// without a network round-trip to the identity provider.
type SessionVerifier struct {
	key     *rsa.PublicKey
	parties []string
	leeway  time.Duration
}

// NewSessionVerifier parses the PEM key. Literal "\n" sequences are accepted
// since keys are usually passed through a single-line env var.
func NewSessionVerifier(pemKey string, authorizedParties []string) (*SessionVerifier, error) {
	pemKey = strings.TrimSpace(strings.ReplaceAll(pemKey, `\n`, "\n"))
	if pemKey == "" {
		return nil, ErrSessionKeyMissing
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, err
	}
	return &SessionVerifier{key: key, parties: authorizedParties, leeway: 5 * time.Second}, nil
}

func (v *SessionVerifier) Parse(tokenStr string) (*SessionClaims, error) {
	if v == nil || v.key == nil {
		return nil, ErrSessionKeyMissing
	}
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	if claims.AuthorizedParty != "" && len(v.parties) > 0 && !slices.Contains(v.parties, claims.AuthorizedParty) {
		return nil, errors.Join(ErrInvalidSession, errors.New("unauthorized party "+claims.AuthorizedParty))
	}
	return claims, nil
}
