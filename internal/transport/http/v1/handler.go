// Package v1 provides the public HTTP handlers for the assistant.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/safar-ai/safar/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers external routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/chat", h.Chat)

	e.GET("/api/sessions/:session_id", h.GetSession)
	e.GET("/api/sessions/:session_id/stats", h.GetSessionStats)
	e.DELETE("/api/sessions/:session_id", h.DeleteSession)

	e.GET("/health", h.Health)
	e.GET("/", h.Root)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "safar",
		"version": "0.1.0",
	})
}

// Root returns a short service description.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"service": "Safar travel assistant API",
		"endpoints": map[string]string{
			"chat":          "POST /api/chat",
			"session":       "GET /api/sessions/:session_id",
			"session_stats": "GET /api/sessions/:session_id/stats",
			"clear_session": "DELETE /api/sessions/:session_id",
			"health":        "GET /health",
		},
	})
}
