package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/controllers"
)

func SetupNotificationRoutes(public, protected *gin.RouterGroup, nc *controllers.NotificationController) {
	// Forms on the public site.
	public.POST("/newsletter/subscribe", nc.Subscribe)
	public.POST("/interested", nc.AddInterested)
	public.POST("/consultation", nc.AddConsultation)

	protected.GET("/newsletter", nc.Newsletter)
	protected.GET("/newsletter/unread", nc.Unread)
	protected.POST("/newsletter/markAsRead", nc.MarkSubscriptionsRead)
	protected.GET("/interested/findAllNotReaded", nc.Interested)
	protected.POST("/interested/markAsRead", nc.MarkInterestedRead)
	protected.GET("/consultation/getAllUnReadConsultents", nc.Consultations)
	protected.POST("/consultation/isRead", nc.MarkConsultationsRead)
	protected.GET("/notifications/stream", nc.Stream)
}
