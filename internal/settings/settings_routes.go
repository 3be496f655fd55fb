package settings

import (
	"shiftwatch/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	grp := r.Group("/settings")
	grp.Use(middleware.DeviceAuth())
	{
		grp.GET("", h.Get)
		grp.POST("", h.Update)
	}
}
