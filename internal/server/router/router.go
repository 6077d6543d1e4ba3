package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/server/handlers"
)

// Handlers bundles the page handlers wired into the engine.
type Handlers struct {
	Debt     *handlers.DebtHandler
	Resale   *handlers.ResaleHandler
	Report   *handlers.ReportHandler
	Settings *handlers.SettingsHandler
	Messages *handlers.MessageHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	debt := api.Group("/debt")
	debt.GET("/units", h.Debt.ListUnits)
	debt.PUT("/rows/:unitID", h.Debt.UpdateRow)
	debt.POST("/rows/:unitID/save", h.Debt.SaveRow)
	debt.POST("/summary/copy", h.Debt.CopySummary)

	resale := api.Group("/resale")
	resale.GET("/units", h.Resale.ListUnits)
	resale.PUT("/rows/:unitID", h.Resale.UpdateRow)
	resale.POST("/rows/:unitID/save", h.Resale.SaveRow)
	resale.POST("/export", h.Resale.Export)

	api.GET("/report", h.Report.Get)
	api.POST("/report/copy", h.Report.Copy)

	api.GET("/settings", h.Settings.Get)
	api.POST("/settings/test", h.Settings.Test)

	messages := api.Group("/messages/:sessionID")
	messages.POST("/open", h.Messages.Open)
	messages.DELETE("", h.Messages.Close)
	messages.PUT("/mode", h.Messages.SetMode)
	messages.PUT("/recipient", h.Messages.SetRecipient)
	messages.PUT("/kind", h.Messages.ChooseKind)
	messages.POST("/next", h.Messages.Next)
	messages.POST("/back", h.Messages.Back)
	messages.PUT("/fields", h.Messages.ToggleField)
	messages.GET("/preview", h.Messages.Preview)
	messages.POST("/copy", h.Messages.CopyPreview)
	messages.GET("/link", h.Messages.Link)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
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
			zap.String("request_id", c.GetString("request_id")),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
