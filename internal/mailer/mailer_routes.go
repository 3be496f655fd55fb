package mailer

import (
	"shiftwatch/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	grp := r.Group("/email")
	grp.Use(middleware.DeviceAuth())
	{
		grp.POST("/send", h.Send)
	}
}
