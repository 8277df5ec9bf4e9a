package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"bacnet_device_sim/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      List devices
// @Description  Every device that uploaded at least once, with last mode and upload count.
// @Tags         devices
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, devices"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices [get]
// @Security     BearerAuth
func (h *Handler) listDevices(c *gin.Context) {
	devices, err := h.services.Monitoring.ListDevices(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListDevices, "devices_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(devices),
		"devices": devices,
	})
}

// @Summary      Latest device state
// @Tags         devices
// @Produce      json
// @Param        id   path      int  true  "Device id"
// @Success      200  {object}  models.ReadingRecord
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices/{id}/state [get]
// @Security     BearerAuth
func (h *Handler) getDeviceState(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device id must be a positive integer"})
		return
	}

	rec, err := h.services.Monitoring.GetDeviceState(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "device_get_state_failed", err, "device_id", id)
		return
	}
	c.JSON(http.StatusOK, rec)
}
