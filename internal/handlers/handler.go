package handlers

import (
	_ "bacnet_device_sim/docs" // swagger spec
	"bacnet_device_sim/internal/logger"
	"bacnet_device_sim/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	apiKey   string
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs a new HTTP handler with dependencies.
// apiKey is the value devices must send in the Authorization header of uploads.
// wsOrigins are extra browser origins allowed to open the stream.
func NewHandler(services *service.Service, apiKey string, log *logger.Logger, wsOrigins ...string) *Handler {
	h := &Handler{services: services, apiKey: apiKey, log: log}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(wsOrigins)}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health endpoint
	router.GET("/health", h.health)

	// Device uploads, guarded by the shared API key
	router.POST("/device/upload", h.apiKeyMiddleware, h.uploadReading)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Latest reading stream for one device, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerDeviceRoutes(api)
		api.GET("/readings", h.getReadings)
	}
}

func (h *Handler) registerDeviceRoutes(api *gin.RouterGroup) {
	devices := api.Group("/devices")
	{
		devices.GET("", h.listDevices)
		devices.GET("/:id/state", h.getDeviceState)
	}
}
