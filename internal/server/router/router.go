package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/server/handlers"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Menu          *handlers.MenuHandler
	Staff         *handlers.StaffHandler
	Inventory     *handlers.InventoryHandler
	Sessions      *handlers.SessionHandler
	Reports       *handlers.ReportHandler
	Notifications *handlers.NotificationHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("", h.Auth.RequireUser())
	authed.GET("/auth/me", h.Auth.Me)

	users := authed.Group("/users")
	users.GET("", h.Auth.ListUsers)
	users.POST("", h.Auth.CreateUser)
	users.PUT("/:id/password", h.Auth.ChangePassword)
	users.DELETE("/:id", h.Auth.DeleteUser)

	menu := authed.Group("/menu")
	menu.GET("/items", h.Menu.List)
	menu.POST("/items", h.Menu.Create)
	menu.GET("/items/:id", h.Menu.Get)
	menu.PUT("/items/:id", h.Menu.Update)
	menu.DELETE("/items/:id", h.Menu.Delete)
	menu.POST("/reset-sold", h.Menu.ResetSold)

	employees := authed.Group("/employees")
	employees.GET("", h.Staff.ListEmployees)
	employees.POST("", h.Staff.CreateEmployee)
	employees.GET("/:id", h.Staff.GetEmployee)
	employees.PUT("/:id", h.Staff.UpdateEmployee)
	employees.DELETE("/:id", h.Staff.DeleteEmployee)
	employees.POST("/:id/checkin", h.Staff.CheckIn)
	employees.POST("/:id/checkout", h.Staff.CheckOut)
	authed.GET("/shifts", h.Staff.Shifts)
	authed.GET("/shifts/open", h.Staff.OpenShifts)

	inventory := authed.Group("/inventory")
	inventory.GET("", h.Inventory.List)
	inventory.POST("", h.Inventory.Create)
	inventory.GET("/low", h.Inventory.Low)
	inventory.GET("/:id", h.Inventory.Get)
	inventory.PUT("/:id", h.Inventory.Update)
	inventory.DELETE("/:id", h.Inventory.Delete)
	inventory.POST("/:id/delivery", h.Inventory.Delivery)
	inventory.POST("/:id/consumption", h.Inventory.Consumption)
	inventory.POST("/:id/adjustment", h.Inventory.Adjustment)
	inventory.GET("/:id/changes", h.Inventory.Changes)

	sessions := authed.Group("/sessions")
	sessions.GET("", h.Sessions.List)
	sessions.POST("", h.Sessions.Start)
	sessions.DELETE("", h.Sessions.DeleteForDate)
	sessions.GET("/active", h.Sessions.Active)
	sessions.GET("/:id", h.Sessions.Get)
	sessions.POST("/:id/close", h.Sessions.Close)

	authed.POST("/sales", h.Sessions.RecordSale)
	authed.GET("/sales", h.Sessions.ListSales)
	authed.DELETE("/sales/:id", h.Sessions.VoidSale)

	authed.POST("/expenses", h.Sessions.RecordExpense)
	authed.GET("/expenses", h.Sessions.ListExpenses)
	authed.DELETE("/expenses/:id", h.Sessions.DeleteExpense)

	quick := authed.Group("/quick-expenses")
	quick.GET("", h.Sessions.ListQuickExpenses)
	quick.POST("", h.Sessions.CreateQuickExpense)
	quick.PUT("/:id", h.Sessions.UpdateQuickExpense)
	quick.DELETE("/:id", h.Sessions.DeleteQuickExpense)
	quick.POST("/:id/toggle", h.Sessions.ToggleQuickExpense)
	quick.POST("/:id/use", h.Sessions.UseQuickExpense)

	days := authed.Group("/days")
	days.GET("/:date", h.Sessions.Day)
	days.PUT("/:date/start-cash", h.Sessions.SetStartCash)
	days.POST("/:date/closing", h.Sessions.SaveClosing)

	reports := authed.Group("/reports")
	reports.GET("/chef", h.Reports.Chef)
	reports.GET("/daily-closing", h.Reports.DailyClosing)
	reports.GET("/dashboard", h.Reports.Dashboard)

	authed.POST("/notifications", h.Notifications.Send)

	logger.Info("router initialized")
	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}
