package handler

import (
	"github.com/aqualog/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	tanks       *service.TankService
	inhabitants *service.InhabitantService
	maintenance *service.MaintenanceService
	readings    *service.ReadingService
	analytics   *service.AnalyticsService
	dashboard   *service.DashboardService
	uploadDir   string
	uploadURL   string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:          gdb,
		tanks:       service.NewTankService(gdb),
		inhabitants: service.NewInhabitantService(gdb),
		maintenance: service.NewMaintenanceService(gdb),
		readings:    service.NewReadingService(gdb),
		analytics:   service.NewAnalyticsService(gdb),
		dashboard:   service.NewDashboardService(gdb),
		uploadDir:   uploadDir,
		uploadURL:   uploadURL,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}
