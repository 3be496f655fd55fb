package schedule

import (
	"shiftwatch/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	grp := r.Group("/schedule")
	grp.Use(middleware.DeviceAuth())
	{
		grp.GET("/current", h.Current)
		grp.POST("/upload", h.UploadPDF)
		grp.POST("/upload-image", h.UploadImage)
		grp.POST("/manual", h.Manual)
		grp.DELETE("/:id", h.Delete)
	}
}
