package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"booth_dashboard"

	"github.com/gin-gonic/gin"
)

// @Summary      Server-sent event stream
// @Description  Each event is `data: {"values":{...}}` on a good poll or `data: {"error":"..."}` on a faulted one. Clients reconnect after 3s if the stream drops.
// @Tags         booth
// @Produce      text/event-stream
// @Success      200
// @Router       /stream [get]
func (h *Handler) streamSSE(c *gin.Context) {
	hdr := c.Writer.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	// the request context ends when the client goes away
	err := h.services.Stream.Subscribe(c.Request.Context(), c.ClientIP(), func(frame booth_dashboard.StreamFrame) error {
		payload, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil && h.log != nil {
		h.log.Infow("sse_stream_ended", "client", c.ClientIP(), "err", err)
	}
}
