package control

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type speedRequest struct {
	SpeedFactor int `json:"speed_factor" binding:"required,min=1"`
}

func (h *Handler) getSimulation(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.Status())
}

func (h *Handler) setSpeed(c *gin.Context) {
	var req speedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	if err := h.sim.SetSpeedFactor(req.SpeedFactor); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "speed_factor_rejected", err)
		return
	}
	c.JSON(http.StatusOK, h.sim.Status())
}
