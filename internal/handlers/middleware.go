package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// gateMiddleware requires a valid bearer token when the shared-secret gate
// is enabled and lets everything through otherwise.
func (h *Handler) gateMiddleware(c *gin.Context) {
	if !h.services.Gate.Enabled() {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	if err := h.services.Gate.ParseToken(parts[1]); err != nil {
		if h.log != nil {
			h.log.Infow("gate_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Next()
}
