package handlers

import (
	"context"
	"errors"
	"net/http"

	"booth_dashboard"
	"booth_dashboard/internal/coerce"
	"booth_dashboard/internal/device"
	"booth_dashboard/internal/models"
	"booth_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK     = "ok"
	statusOnline = "online"
	serviceName  = "booth-dashboard"

	errInvalidBodyPref = "invalid body: "
	errRequestCanceled = "request canceled"
	errWriteFailed     = "write failed"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// WriteRequest is the write command payload.
type WriteRequest struct {
	// Point id on the controller
	Tag string `json:"tag" example:"M[1].0"`
	// Value to write
	Value *float64 `json:"value" example:"1"`
	// Write the value, wait the settle delay, then write 0
	Momentary bool `json:"momentary,omitempty" example:"true"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  booth_dashboard.HealthResponse
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, booth_dashboard.HealthResponse{
		OK:      true,
		Service: serviceName,
		Status:  statusOnline,
		PLCIP:   h.services.Monitoring.Address(),
	})
}

// @Summary      One-shot read
// @Description  Reads every point once on a transient device session. error is null on success.
// @Tags         booth
// @Produce      json
// @Success      200  {object}  booth_dashboard.ReadResponse
// @Router       /api/read [get]
func (h *Handler) readOnce(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.ReadOnce(c.Request.Context()))
}

// @Summary      Write a point
// @Description  Momentary writes pulse the value and clear it to 0 after the settle delay. The clear always runs once the first write succeeded.
// @Tags         booth
// @Accept       json
// @Produce      json
// @Param        body  body      WriteRequest  true  "Write command"
// @Success      200   {object}  booth_dashboard.WriteResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /write [post]
// @Security     BearerAuth
func (h *Handler) writeTag(c *gin.Context) {
	var req WriteRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	ack, err := h.services.Control.Submit(c.Request.Context(), models.WriteCommand{
		PointID:   req.Tag,
		Value:     req.Value,
		Momentary: req.Momentary,
	})
	if err != nil {
		code, msg := writeErrorStatus(err)
		if h.log != nil {
			h.log.Warnw("write_request_failed", "tag", req.Tag, "momentary", req.Momentary, "status", code, "err", err)
		}
		c.JSON(code, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, booth_dashboard.WriteResponse{
		Status: statusOK,
		Tag:    ack.PointID,
		Value:  ack.Value,
	})
}

// writeErrorStatus maps a Submit error to an HTTP status and client message.
func writeErrorStatus(err error) (int, string) {
	var clearErr *service.ClearWriteError
	switch {
	case errors.Is(err, service.ErrInvalidCommand):
		return http.StatusBadRequest, "Missing tag or value"
	case errors.As(err, &clearErr):
		return http.StatusBadGateway, clearErr.Error()
	case errors.Is(err, device.ErrRejected):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, device.ErrTransportFault):
		return http.StatusBadGateway, coerce.ErrorText(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errRequestCanceled
	default:
		return http.StatusInternalServerError, errWriteFailed
	}
}
