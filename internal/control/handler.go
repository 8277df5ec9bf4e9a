// Package control serves the HTTP API a building controller uses to read and
// command the simulated boiler while it runs.
package control

import (
	"bacnet_device_sim/internal/device"
	"bacnet_device_sim/internal/logger"
	"bacnet_device_sim/internal/simulation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Simulator is the part of the running simulation the API needs.
type Simulator interface {
	Status() simulation.Status
	SetSpeedFactor(n int) error
}

// Points is the device point store as seen by external clients.
type Points interface {
	Snapshot() []device.PointValue
	Point(name string) (device.PointValue, error)
	Write(name string, v any) error
}

// Handler wires the control API to the simulation and its point store.
type Handler struct {
	sim    Simulator
	points Points
	log    *logger.Logger
}

func NewHandler(sim Simulator, points Points, log *logger.Logger) *Handler {
	return &Handler{sim: sim, points: points, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		points := api.Group("/points")
		{
			points.GET("", h.listPoints)
			points.GET("/:name", h.getPoint)
			// Body example: {"value":65}
			points.PUT("/:name", h.writePoint)
		}

		sim := api.Group("/simulation")
		{
			sim.GET("", h.getSimulation)
			// Body example: {"speed_factor":10}
			sim.PUT("/speed", h.setSpeed)
		}
	}
	return router
}

func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Warnw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}
