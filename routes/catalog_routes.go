package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/controllers"
)

func SetupCategoryRoutes(public, protected *gin.RouterGroup, categoryController *controllers.CategoryController) {
	public.GET("/category", categoryController.List)
	public.GET("/category/getOne/:id", categoryController.GetOne)

	category := protected.Group("/category")
	{
		category.POST("/create", categoryController.Create)
		category.PUT("/update/:id", categoryController.Update)
		category.DELETE("/delete/:id", categoryController.Delete)
	}
}

func SetupUnitRoutes(public, protected *gin.RouterGroup, unitController *controllers.UnitController) {
	public.GET("/unit/getunit/:id", unitController.GetUnit)
	public.GET("/unit/category/:categoryId", unitController.ByCategory)

	unit := protected.Group("/unit")
	{
		unit.POST("/addunit", unitController.AddUnit)
		unit.PUT("/updateunit/:id", unitController.UpdateUnit)
		unit.DELETE("/deleteunit/:id", unitController.DeleteUnit)
	}
}

// SetupContentRoutes mounts list, create and delete for one content kind under prefix.
func SetupContentRoutes(public, protected *gin.RouterGroup, prefix string, h ContentHandlers) {
	if h == nil {
		return
	}
	public.GET(prefix, h.List)
	protected.POST(prefix, h.Create)
	protected.DELETE(prefix+"/:id", h.Delete)
}
