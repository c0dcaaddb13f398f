package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP sets the real client IP into Gin context (key: "real_ip").
// Forwarding headers are honoured only when the direct peer is a trusted
// proxy (loopback or private range); any other peer is the client itself.
// Priority for trusted peers:
// 1) CF-Connecting-IP (Cloudflare)
// 2) X-Real-IP (nginx)
// 3) X-Forwarded-For, right-most hop that is not itself a proxy
// 4) the peer address
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", realIP(c))
		c.Next()
	}
}

func realIP(c *gin.Context) string {
	peer := net.ParseIP(c.RemoteIP())
	if peer == nil {
		return c.ClientIP()
	}
	if !trustedProxy(peer) {
		return peer.String()
	}
	for _, h := range []string{"CF-Connecting-IP", "X-Real-IP"} {
		if ip := net.ParseIP(strings.TrimSpace(c.GetHeader(h))); ip != nil {
			return ip.String()
		}
	}
	if ip := forwardedFor(c.GetHeader("X-Forwarded-For")); ip != nil {
		return ip.String()
	}
	return peer.String()
}

// forwardedFor walks the hops right to left; clients can prepend anything,
// so the first untrusted hop is the one our proxies saw.
func forwardedFor(xff string) net.IP {
	if xff == "" {
		return nil
	}
	hops := strings.Split(xff, ",")
	var last net.IP
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			return last
		}
		last = ip
		if !trustedProxy(ip) {
			return ip
		}
	}
	return last
}

func trustedProxy(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate()
}
