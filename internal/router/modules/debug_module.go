package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/iterate-backend/internal/interface/middleware"
)

// DebugModule exposes expvar (webhook counters, memstats) at /api/debug/vars.
type DebugModule struct {
	Redis *redis.Client
}

func NewDebugModule(rdb *redis.Client) *DebugModule { return &DebugModule{Redis: rdb} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, middleware.PerMinute(120, middleware.KeyByIP()))
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
