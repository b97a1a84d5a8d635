package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/controllers"
)

func SetupUploadRoutes(r *gin.RouterGroup, uploadController *controllers.UploadController) {
	upload := r.Group("/upload")
	{
		upload.POST("/presigned-url", uploadController.GetPresignedURL)
		// Keys contain slashes.
		upload.DELETE("/file/*key", uploadController.DeleteFile)
	}
}
