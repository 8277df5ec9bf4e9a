package control

import (
	"errors"
	"net/http"

	"bacnet_device_sim/internal/device"

	"github.com/gin-gonic/gin"
)

const (
	statusOK      = "ok"
	statusWritten = "written"

	errValueRequired = "value is required"
)

type writePointRequest struct {
	Value any `json:"value"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

func (h *Handler) listPoints(c *gin.Context) {
	points := h.points.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"count":  len(points),
		"points": points,
	})
}

func (h *Handler) getPoint(c *gin.Context) {
	name := c.Param("name")
	p, err := h.points.Point(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// writePoint commands a writable point the way a BACnet client write would.
func (h *Handler) writePoint(c *gin.Context) {
	name := c.Param("name")

	var req writePointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	if req.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValueRequired})
		return
	}

	if err := h.points.Write(name, req.Value); err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, device.ErrUnknownPoint):
			code = http.StatusNotFound
		case errors.Is(err, device.ErrReadOnlyPoint):
			code = http.StatusForbidden
		case errors.Is(err, device.ErrPointKind):
			code = http.StatusBadRequest
		}
		h.logAndJSONError(c, code, err.Error(), "point_write_rejected", err, "point", name, "value", req.Value)
		return
	}

	if h.log != nil {
		h.log.Infow("point_written", "point", name, "value", req.Value)
	}
	p, _ := h.points.Point(name)
	c.JSON(http.StatusOK, gin.H{"status": statusWritten, "point": p})
}
