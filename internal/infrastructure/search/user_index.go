package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/iterate-backend/internal/domain/entity"
)

// UserDocument is the indexed shape of a user.
type UserDocument struct {
	ID              string    `json:"id"`
	ClerkID         string    `json:"clerk_id"`
	Name            string    `json:"name"`
	AvatarURL       string    `json:"avatar_url"`
	AvatarMirrorURL string    `json:"avatar_mirror_url,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func DocumentFromEvent(ev entity.UserEvent, mirrorURL string) UserDocument {
	return UserDocument{
		ID:              ev.UserID,
		ClerkID:         ev.ClerkID,
		Name:            ev.Name,
		AvatarURL:       ev.AvatarURL,
		AvatarMirrorURL: mirrorURL,
		UpdatedAt:       ev.OccurredAt,
	}
}

// UserMapping is the index mapping for UserDocument.
const UserMapping = `{
  "mappings": {
    "properties": {
      "id": {"type": "keyword"},
      "clerk_id": {"type": "keyword"},
      "name": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "avatar_url": {"type": "keyword", "index": false},
      "avatar_mirror_url": {"type": "keyword", "index": false},
      "updated_at": {"type": "date"}
    }
  }
}`

// UserIndex reads and writes user documents keyed by clerk id.
type UserIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{ES: es, Index: index}
}

// Put writes doc keyed by clerk id. Documents with an UpdatedAt use it as an
// external version, so a redelivered older event never replaces a newer one;
// the resulting version conflict counts as success.
func (x *UserIndex) Put(ctx context.Context, doc UserDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: doc.ClerkID, Body: bytes.NewReader(b), Refresh: "false"}
	if !doc.UpdatedAt.IsZero() {
		v := int(doc.UpdatedAt.UnixNano())
		req.Version = &v
		req.VersionType = "external"
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode == http.StatusConflict {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", doc.ClerkID, res.Status())
	}
	return nil
}

// IndexEvent upserts the document for a saved-user event.
func (x *UserIndex) IndexEvent(ctx context.Context, ev entity.UserEvent, mirrorURL string) error {
	return x.Put(ctx, DocumentFromEvent(ev, mirrorURL))
}

// Search performs a multi_match on name and clerk_id.
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]entity.User, error) {
	b, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}
	return decodeHits(res.Body)
}

func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "clerk_id"},
			},
		},
		"size": size,
	}
}

func decodeHits(r io.Reader) ([]entity.User, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				Source UserDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.User, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		avatar := h.Source.AvatarURL
		if h.Source.AvatarMirrorURL != "" {
			avatar = h.Source.AvatarMirrorURL
		}
		out = append(out, entity.User{
			ID:        h.Source.ID,
			ClerkID:   h.Source.ClerkID,
			Name:      h.Source.Name,
			AvatarURL: avatar,
			UpdatedAt: h.Source.UpdatedAt,
		})
	}
	return out, nil
}
