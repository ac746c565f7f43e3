package handlers

import (
	"errors"
	"net/http"

	"booth_dashboard"
	"booth_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

type unlockRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Unlock the write gate
// @Description  Exchanges the shared PIN for a bearer token used by /write and /api/v1/logs.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      unlockRequest  true  "PIN"
// @Success      200   {object}  booth_dashboard.UnlockResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/unlock [post]
func (h *Handler) unlock(c *gin.Context) {
	var input unlockRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Gate.Unlock(input.Pin)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPin) {
			if h.log != nil {
				h.log.Infow("gate_unlock_failed", "err", err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid pin"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to issue token", "gate_token_failed", err)
		return
	}

	c.JSON(http.StatusOK, booth_dashboard.UnlockResponse{Token: token})
}
