package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/controllers"
	"github.com/raf-alpha/api-go/middleware"
	"github.com/raf-alpha/api-go/types"
)

// ContentHandlers is served by every per-language content controller.
type ContentHandlers interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Delete(c *gin.Context)
}

// Controllers groups everything SetupRoutes mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	Category     *controllers.CategoryController
	Unit         *controllers.UnitController
	FAQ          ContentHandlers
	Review       ContentHandlers
	Blog         ContentHandlers
	Notification *controllers.NotificationController
	Validation   *controllers.ValidationController
	Upload       *controllers.UploadController
}

func SetupRoutes(r *gin.Engine, tokens middleware.TokenParser, ctl Controllers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("")
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	super := protected.Group("")
	super.Use(middleware.RequireRole(types.RoleSuperAdmin))

	SetupAuthRoutes(public, protected, super, ctl.Auth)
	SetupCategoryRoutes(public, protected, ctl.Category)
	SetupUnitRoutes(public, protected, ctl.Unit)
	SetupContentRoutes(public, protected, "/faq", ctl.FAQ)
	SetupContentRoutes(public, protected, "/review", ctl.Review)
	SetupContentRoutes(public, protected, "/blog", ctl.Blog)
	SetupNotificationRoutes(public, protected, ctl.Notification)
	SetupValidationRoutes(public, protected, ctl.Validation)
	if ctl.Upload != nil {
		SetupUploadRoutes(protected, ctl.Upload)
	}
}
