package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

var forwardedHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP stores the client address under "real_ip" for rate-limit keys and
// access logs. Forwarded headers are honoured only when trustProxy is set;
// for X-Forwarded-For the left-most address wins.
func RealIP(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if trustProxy {
			if fwd := forwardedIP(c); fwd != "" {
				ip = fwd
			}
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}

func forwardedIP(c *gin.Context) string {
	for _, h := range forwardedHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		first, _, _ := strings.Cut(v, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return ""
}
