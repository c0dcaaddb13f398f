// Package storage copies user avatars into the application's bucket.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/iterate-backend/pkg/helpers"
)

var ErrUnsupportedAvatarURL = errors.New("avatar url must be http or https")

// AvatarMirror copies remote avatar images into a GCS bucket.
type AvatarMirror struct {
	Client *storage.Client
	Bucket string
	HTTP   *http.Client
}

func NewAvatarMirror(client *storage.Client, bucket string) *AvatarMirror {
	return &AvatarMirror{Client: client, Bucket: bucket, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// Mirror stores srcURL under avatars/<clerkID>/ and returns the public URL.
func (m *AvatarMirror) Mirror(ctx context.Context, clerkID, srcURL string) (string, error) {
	objectPath, err := ObjectPath(clerkID, srcURL)
	if err != nil {
		return "", err
	}
	return helpers.MirrorURL(ctx, m.HTTP, m.Client, m.Bucket, objectPath, srcURL)
}

// ObjectPath names the bucket object for an avatar, keeping the source
// extension. The name is derived from srcURL, so redelivered events overwrite
// the same object instead of leaving copies behind.
func ObjectPath(clerkID, srcURL string) (string, error) {
	u, err := url.Parse(srcURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrUnsupportedAvatarURL
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if len(ext) > 5 {
		ext = ""
	}
	sum := sha256.Sum256([]byte(srcURL))
	return path.Join("avatars", clerkID, hex.EncodeToString(sum[:16])+ext), nil
}
