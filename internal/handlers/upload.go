package handlers

import (
	"errors"
	"net/http"

	"bacnet_device_sim/internal/models"
	"bacnet_device_sim/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errStoreReading    = "failed to store reading"
	errListDevices     = "failed to load devices"
	errGetState        = "failed to load device state"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Upload a device reading
// @Description  Called by boilers every report interval. Authorization must equal the configured API key.
// @Tags         device
// @Accept       json
// @Param        body  body  models.DeviceReading  true  "Reading payload"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /device/upload [post]
// @Security     ApiKeyAuth
func (h *Handler) uploadReading(c *gin.Context) {
	var reading models.DeviceReading
	if err := c.ShouldBindJSON(&reading); err != nil {
		if h.log != nil {
			h.log.Infow("upload_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	rec, err := h.services.Ingest.Upload(c.Request.Context(), reading)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReading) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errStoreReading, "upload_store_failed", err,
			"device_id", reading.DeviceID)
		return
	}

	if h.log != nil {
		h.log.Debugw("upload_stored", "device_id", rec.DeviceID, "id", rec.ID, "mode", rec.OperationMode)
	}
	c.Status(http.StatusNoContent)
}
