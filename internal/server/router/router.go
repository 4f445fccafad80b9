package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/server/handlers"
	"github.com/dairydesk/backend/internal/server/middleware"
	"github.com/dairydesk/backend/internal/service/auth"
)

// Handlers bundles every HTTP adapter the router mounts.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Milk     *handlers.MilkHandler
	Payments *handlers.PaymentsHandler
	Users    *handlers.UsersHandler
	Reports  *handlers.ReportsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, authSvc *auth.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("", middleware.RequireAuth(authSvc))
	{
		authed.GET("/milk", h.Milk.List)
		authed.POST("/milk/sale", h.Milk.CreateSale)
		authed.POST("/milk/purchase", h.Milk.CreatePurchase)
		authed.PUT("/milk/:id", h.Milk.Update)
		authed.DELETE("/milk/:id", h.Milk.Delete)

		authed.GET("/payments", h.Payments.List)
		authed.POST("/payments", h.Payments.Create)
		authed.GET("/payments/:id", h.Payments.Get)
		authed.PUT("/payments/:id", h.Payments.Update)
		authed.DELETE("/payments/:id", h.Payments.Delete)

		reports := authed.Group("/reports")
		reports.GET("/profit-loss", h.Reports.ProfitLoss)
		reports.GET("/dashboard-summary", h.Reports.DashboardSummary)
		reports.GET("/consumer-consumption-monthly", h.Reports.MonthlyConsumption)
		reports.GET("/consumer-consumption-monthly/export/excel", h.Reports.ExportExcel)
		reports.GET("/consumer-consumption-monthly/export/pdf", h.Reports.ExportPDF)
		reports.GET("/buyer-consumption/export", h.Reports.ExportCSV)

		admin := authed.Group("/users", middleware.RequireAdmin())
		admin.GET("", h.Users.List)
		admin.POST("", h.Users.Create)
		admin.PUT("/:id", h.Users.Update)
		admin.POST("/:id/password", h.Users.ChangePassword)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
