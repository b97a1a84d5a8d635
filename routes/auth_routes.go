package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/controllers"
)

func SetupAuthRoutes(public, protected, super *gin.RouterGroup, authController *controllers.AuthController) {
	auth := public.Group("/auth")
	{
		auth.POST("/signIn", authController.SignIn)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/logout", authController.Logout)
		auth.POST("/sendEmail", authController.SendResetCode)
		auth.POST("/reset", authController.ResetPassword)
	}

	admin := protected.Group("/auth")
	{
		admin.GET("/users", authController.ListUsers)
		admin.GET("/generatePassword", authController.GeneratePassword)
	}

	owner := super.Group("/auth")
	{
		owner.POST("/sendEmailNew", authController.SendVerificationCode)
		owner.POST("/add", authController.AddUser)
		owner.PUT("/update/:id", authController.UpdateUser)
		owner.DELETE("/delete/:id", authController.DeleteUser)
	}
}
