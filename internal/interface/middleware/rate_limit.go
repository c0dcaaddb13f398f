package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/iterate-backend/pkg/response"
)

// KeyFunc builds a rate-limit key from the request.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true to bypass the limit.
type AllowFunc func(*gin.Context) bool

// RatePolicy is a fixed window: at most Max hits per Window for each Key.
type RatePolicy struct {
	Max    int
	Window time.Duration
	Key    KeyFunc
	Allow  AllowFunc
}

// PerMinute is a policy of max hits per minute.
func PerMinute(max int, key KeyFunc) RatePolicy {
	return RatePolicy{Max: max, Window: time.Minute, Key: key}
}

// WithAllow returns a copy of p that bypasses requests allow accepts.
func (p RatePolicy) WithAllow(allow AllowFunc) RatePolicy {
	p.Allow = allow
	return p
}

func (p RatePolicy) enabled() bool {
	return p.Max > 0 && p.Window > 0 && p.Key != nil
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// KeyByIP limits by client IP only.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + clientIP(c)
	}
}

// KeyByIPAndPath limits by client IP and route pattern.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		return "rl:path:" + path + ":ip:" + clientIP(c)
	}
}

// KeyByClerkID limits signed-in callers per user, anonymous ones per IP.
func KeyByClerkID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxClerkIDKey); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + clientIP(c)
	}
}

// AllowPrivateIP bypasses loopback and private-range callers, such as
// in-cluster probes and the local tunnel used to replay deliveries.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(clientIP(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}

// Returns {count, pttl} in one round trip; the expiry is set on first hit.
var hitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RateLimit enforces p against redis and sets the X-RateLimit-* headers.
// OPTIONS is never counted. A nil client or a redis error lets the request
// through.
func RateLimit(rdb *redis.Client, p RatePolicy) gin.HandlerFunc {
	if rdb == nil || !p.enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, http.MethodOptions) || (p.Allow != nil && p.Allow(c)) {
			c.Next()
			return
		}

		count, ttl, err := hit(c, rdb, p.Key(c), p.Window)
		if err != nil {
			c.Next()
			return
		}
		resetSec := 0
		if ttl > 0 {
			resetSec = int((ttl + time.Second - 1) / time.Second)
		}

		// https://datatracker.ietf.org/doc/html/rfc6585#section-4
		c.Header("X-RateLimit-Limit", strconv.Itoa(p.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining(p.Max, count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > p.Max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

func hit(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (int, time.Duration, error) {
	res, err := hitScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, redis.Nil
	}
	return toInt(res[0]), time.Duration(toInt(res[1])) * time.Millisecond, nil
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}

func toInt(v any) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
