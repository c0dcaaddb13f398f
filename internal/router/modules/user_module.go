package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/iterate-backend/internal/interface/http"
	"github.com/oksasatya/iterate-backend/internal/interface/middleware"
)

// UserModule wires the signed-in user routes behind the session gate.
// Protected: GET /api/users/me, GET /api/users/search
type UserModule struct {
	Handler  *handlers.UserHandler
	Sessions middleware.SessionParser
	Redis    *redis.Client
}

func NewUserModule(h *handlers.UserHandler, sessions middleware.SessionParser, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Sessions: sessions, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.Sessions))
	auth.Use(
		middleware.RateLimit(m.Redis, middleware.PerMinute(300, middleware.KeyByIP())),
		middleware.RateLimit(m.Redis, middleware.PerMinute(120, middleware.KeyByClerkID())),
	)
	{
		auth.GET("/me", m.Handler.Me)
		auth.GET("/search", m.Handler.Search)
	}
}
