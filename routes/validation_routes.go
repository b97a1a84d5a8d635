package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/controllers"
)

func SetupValidationRoutes(r, protected *gin.RouterGroup, validationController *controllers.ValidationController) {
	validation := r.Group("/validation")
	{
		validation.GET("/schemas", validationController.Schemas)
		validation.GET("/coordinates", validationController.Coordinates)
		validation.GET("/text", validationController.Text)
		validation.POST("/:schema", validationController.ValidateSchema)
	}
	protected.GET("/validation/email/:email", validationController.ValidateEmail)
}
