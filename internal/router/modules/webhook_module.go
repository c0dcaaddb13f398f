package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/iterate-backend/internal/interface/http"
	"github.com/oksasatya/iterate-backend/internal/interface/middleware"
)

// WebhookModule mounts the identity provider webhook outside /api:
// POST /webhooks/clerk/users
type WebhookModule struct {
	Handler *handlers.WebhookUsersHandler
	Redis   *redis.Client
	// Limit is requests per minute per source IP; 0 disables limiting.
	Limit int
}

func NewWebhookModule(h *handlers.WebhookUsersHandler, rdb *redis.Client, limit int) *WebhookModule {
	return &WebhookModule{Handler: h, Redis: rdb, Limit: limit}
}

func (m *WebhookModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.Redis, middleware.PerMinute(m.Limit, middleware.KeyByIPAndPath()).WithAllow(middleware.AllowPrivateIP()))
	rg.POST("/webhooks/clerk/users", limiter, m.Handler.SaveUser)
}
