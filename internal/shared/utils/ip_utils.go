package utils

import (
	"net"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractClientIP returns the caller address for request logs.
// Order: first X-Forwarded-For entry, X-Real-IP, then RemoteAddr.
func ExtractClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip, ok := parseIP(first); ok {
			return ip
		}
	}

	if ip, ok := parseIP(c.GetHeader("X-Real-IP")); ok {
		return ip
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		host = c.Request.RemoteAddr
	}
	if ip, ok := parseIP(host); ok {
		return ip
	}
	return "unknown"
}

func parseIP(raw string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return addr.String(), true
}
