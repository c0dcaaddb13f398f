// Package svix verifies Svix-signed webhooks as delivered by Clerk.
//
// Signed content is "{msg_id}.{timestamp}.{raw_body}", HMAC-SHA256 keyed by the
// base64 part of a "whsec_" secret. The signature header holds one or more
// space-separated "v1,<base64>" entries; any match is accepted.
package svix

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
	"github.com/oksasatya/iterate-backend/internal/domain/entity"
)

const (
	secretPrefix     = "whsec_"
	signatureVersion = "v1"

	DefaultTolerance = 5 * time.Minute
)

// Verifier checks webhook signatures against a single secret.
type Verifier struct {
	key       []byte
	tolerance time.Duration
	now       func() time.Time
}

type Option func(*Verifier)

// WithClock overrides the time source used for the tolerance window.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier decodes the secret once. An empty or malformed secret is a
// configuration error, not a verification failure.
func NewVerifier(secret string, tolerance time.Duration, opts ...Option) (*Verifier, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return nil, err
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	v := &Verifier{key: key, tolerance: tolerance, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func decodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, apperror.Configuration("webhook secret is not configured")
	}
	if !strings.HasPrefix(secret, secretPrefix) {
		return []byte(secret), nil
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil || len(key) == 0 {
		return nil, apperror.Configuration("webhook secret is not valid base64")
	}
	return key, nil
}

// Verify returns nil when one of the supplied signatures matches and the
// timestamp is within tolerance of the current time.
func (v *Verifier) Verify(rawBody []byte, h entity.WebhookHeaders) error {
	if v == nil || len(v.key) == 0 {
		return apperror.Configuration("webhook verifier is not configured")
	}
	if !h.Complete() {
		return apperror.MissingHeaders()
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(h.Timestamp), 10, 64)
	if err != nil {
		return apperror.SignatureInvalid("invalid signature timestamp", nil)
	}
	sentAt := time.Unix(ts, 0)
	now := v.now()
	if now.Sub(sentAt) > v.tolerance {
		return apperror.SignatureInvalid("message timestamp too old", nil)
	}
	if sentAt.Sub(now) > v.tolerance {
		return apperror.SignatureInvalid("message timestamp too new", nil)
	}

	// compared in encoded form so any altered byte of the header fails
	expected := []byte(base64.StdEncoding.EncodeToString(v.compute(h.MessageID, h.Timestamp, rawBody)))
	for _, part := range strings.Fields(h.Signature) {
		version, sig, ok := strings.Cut(part, ",")
		if !ok || version != signatureVersion {
			continue
		}
		if hmac.Equal(expected, []byte(sig)) {
			return nil
		}
	}
	return apperror.SignatureInvalid("no matching signature found", nil)
}

// Sign returns a "v1,<base64>" signature for the given message, in the form
// Verify accepts. Useful for replaying deliveries against a local server.
func (v *Verifier) Sign(msgID string, timestamp time.Time, rawBody []byte) (string, error) {
	if v == nil || len(v.key) == 0 {
		return "", apperror.Configuration("webhook verifier is not configured")
	}
	mac := v.compute(msgID, strconv.FormatInt(timestamp.Unix(), 10), rawBody)
	return fmt.Sprintf("%s,%s", signatureVersion, base64.StdEncoding.EncodeToString(mac)), nil
}

func (v *Verifier) compute(msgID, timestamp string, rawBody []byte) []byte {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(msgID))
	mac.Write([]byte{'.'})
	mac.Write([]byte(timestamp))
	mac.Write([]byte{'.'})
	mac.Write(rawBody)
	return mac.Sum(nil)
}
