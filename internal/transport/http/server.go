package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "practicelog/internal/app"
	"practicelog/internal/bootstrap"
	"practicelog/internal/cache"
	"practicelog/internal/repository"
	"practicelog/internal/transport/http/handler"
	"practicelog/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	sessionRepo := repository.NewSessionRepository(app.DB)
	tagRepo := repository.NewTagRepository(app.DB)
	instrumentRepo := repository.NewInstrumentRepository(app.DB)

	var summaryCache appsvc.SummaryCache
	if app.Redis != nil {
		summaryCache = cache.NewSummaryCache(
			app.Redis,
			time.Duration(app.Config.Redis.SummaryTTLSeconds)*time.Second,
			time.Duration(app.Config.Redis.SummaryDirtyTTLSeconds)*time.Second,
		)
	}

	sessionService := appsvc.NewSessionService(sessionRepo, tagRepo, instrumentRepo, summaryCache)
	analyticsService := appsvc.NewAnalyticsService(sessionRepo, summaryCache, app.Config.Analytics.TopTopics)
	transferService := appsvc.NewTransferService(sessionRepo, instrumentRepo, sessionService)
	authService := appsvc.NewAuthService(
		app.Config.Auth.Enabled,
		app.Config.Auth.PasswordHash,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)

	sessionHandler := handler.NewSessionHandler(sessionService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	transferHandler := handler.NewTransferHandler(transferService)

	guard := func(c *gin.Context) { c.Next() }
	if authService.Enabled() {
		guard = middleware.AuthJWT(app.Config.Auth.JWTSecret)
		authHandler := handler.NewAuthHandler(authService)
		router.POST("/api/v1/auth/login", authHandler.Login)
	}

	v1 := router.Group("/api/v1")
	v1.GET("/sessions", sessionHandler.List)
	v1.GET("/sessions/:id", sessionHandler.Get)
	v1.POST("/sessions", guard, sessionHandler.Create)
	v1.POST("/sessions/:id/notes", guard, sessionHandler.AppendNote)
	v1.DELETE("/sessions/:id", guard, sessionHandler.Delete)
	v1.GET("/tags", sessionHandler.ListTags)
	v1.GET("/instruments", sessionHandler.ListInstruments)
	v1.GET("/dashboard", analyticsHandler.Dashboard)
	v1.GET("/analytics", analyticsHandler.Range)
	v1.GET("/export.json", transferHandler.ExportJSON)
	v1.GET("/export.csv", transferHandler.ExportCSV)
	v1.POST("/import", guard, transferHandler.Import)

	// Routes the original UI already calls.
	router.GET("/api/sessions", sessionHandler.List)
	router.POST("/api/sessions", guard, sessionHandler.Create)
	router.GET("/api/dashboard", analyticsHandler.Dashboard)

	return router
}
