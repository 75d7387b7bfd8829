package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/dormhub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SwaggerGuard hides the API docs when disabled and restricts them to
// allowedIPs when any are given. Entries may be single addresses or CIDR
// prefixes; unparsable entries are ignored.
func SwaggerGuard(enabled bool, allowedIPs []string) gin.HandlerFunc {
	var prefixes []netip.Prefix
	for _, entry := range allowedIPs {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			if p, err := netip.ParsePrefix(entry); err == nil {
				prefixes = append(prefixes, p.Masked())
			}
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	restricted := len(allowedIPs) > 0

	return func(c *gin.Context) {
		if !enabled {
			abortWithError(c, http.StatusNotFound, dto.CodeNotFound, "API documentation is not available")
			return
		}
		if restricted && !addrAllowed(c.ClientIP(), prefixes) {
			abortWithError(c, http.StatusForbidden, dto.CodeForbidden, "Access to API documentation is restricted")
			return
		}
		c.Next()
	}
}

func addrAllowed(ip string, prefixes []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
