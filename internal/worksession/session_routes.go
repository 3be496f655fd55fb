package worksession

import (
	"shiftwatch/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	session := r.Group("/session")
	session.Use(middleware.DeviceAuth())
	{
		session.GET("/active", h.Active)
		session.POST("/start", h.Start)
		session.POST("/end", h.End)
		session.POST("/edit", h.Edit)
		session.POST("/photo", h.AttachPhoto)
	}

	sessions := r.Group("/sessions")
	sessions.Use(middleware.DeviceAuth())
	{
		sessions.GET("/history", h.History)
	}
}
