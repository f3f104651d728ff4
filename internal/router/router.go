package router

import (
	"github.com/aqualog/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, sessionSecret, uploadDir, uploadURLPath string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("aqualog_session", store))

	api := handler.NewAPI(gdb, uploadDir, uploadURLPath)

	// 静态文件服务（上传的图片与缩略图）
	r.Static(uploadURLPath, uploadDir)

	r.GET("/ping", api.Ping)

	// 公开展示路由：浏览公开鱼缸会触发计数
	r.GET("/tanks/:id", api.ShowTank)
	r.GET("/tanks/:id/stats", api.PublicTankStats)

	// 登录态路由
	r.POST("/api/login", api.Login)
	r.POST("/api/logout", api.Logout)

	auth := r.Group("/api")
	auth.Use(handler.AuthRequired())
	{
		auth.GET("/me", api.Me)

		auth.GET("/tanks", api.GetTanks)
		auth.POST("/tanks", api.CreateTank)
		auth.GET("/tanks/:id", api.GetTank)
		auth.PUT("/tanks/:id", api.UpdateTank)
		auth.DELETE("/tanks/:id", api.DeleteTank)
		auth.GET("/tanks/:id/stats", api.TankStats)

		auth.GET("/tanks/:id/inhabitants", api.GetInhabitants)
		auth.POST("/tanks/:id/inhabitants", api.CreateInhabitant)
		auth.PUT("/inhabitants/:id", api.UpdateInhabitant)
		auth.DELETE("/inhabitants/:id", api.DeleteInhabitant)

		auth.GET("/tanks/:id/maintenance", api.GetMaintenanceLogs)
		auth.POST("/tanks/:id/maintenance", api.CreateMaintenanceLog)
		auth.DELETE("/maintenance/:id", api.DeleteMaintenanceLog)

		auth.GET("/tanks/:id/readings", api.GetWaterReadings)
		auth.POST("/tanks/:id/readings", api.CreateWaterReading)
		auth.DELETE("/readings/:id", api.DeleteWaterReading)

		auth.GET("/metrics", api.DashboardMetrics)

		auth.POST("/uploads", api.UploadImage)
	}

	return r
}
