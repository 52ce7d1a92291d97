package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"udyokta.backend/internal/interfaces/http/handlers"
	"udyokta.backend/internal/interfaces/http/middleware"
	"udyokta.backend/pkg/metrics"
)

const (
	serviceName    = "udyokta-backend"
	serviceVersion = "0.1.0"
)

var defaultAllowedOrigins = []string{"http://localhost:3000"}

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	investmentHandler *handlers.InvestmentHandler
	noticeHandler     *handlers.NoticeHandler
	dashboardHandler  *handlers.DashboardHandler
	settingsHandler   *handlers.SettingsHandler
	adminHandler      *handlers.AdminHandler
	sessionMiddleware gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine, origins ...string) {
	if len(origins) == 0 {
		origins = defaultAllowedOrigins
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			middleware.RequestIDHeader, middleware.IdempotencyHeader,
		},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader, middleware.IdempotencyHitHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	v1.Use(d.sessionMiddleware)
	{
		// Identity
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authHandler.GetMe)
			auth.PATCH("/profile", d.authHandler.UpdateProfile)
			auth.POST("/resign", d.authHandler.Resign)
			auth.POST("/verify-reset", d.authHandler.VerifyReset)
		}

		// Aggregates
		v1.GET("/dashboard", d.dashboardHandler.Summary)
		v1.GET("/projects", d.dashboardHandler.Projects)
		v1.GET("/pools", d.dashboardHandler.Pools)

		// Ledger
		investments := v1.Group("/investments")
		{
			investments.GET("", d.investmentHandler.List)
			investments.POST("", middleware.IdempotencyMiddleware(), d.investmentHandler.Submit)
		}

		// Notices
		notices := v1.Group("/notices")
		{
			notices.GET("", d.noticeHandler.List)
			notices.GET("/urgent", d.noticeHandler.Urgent)
			notices.POST("/urgent/ack", d.noticeHandler.Acknowledge)
		}
		v1.POST("/session/reload", d.noticeHandler.Reload)

		// Settings
		settings := v1.Group("/settings")
		{
			settings.GET("", d.settingsHandler.Get)
			settings.PUT("/theme", d.settingsHandler.SetTheme)
			settings.POST("/permissions", d.settingsHandler.MarkPermissionsRequested)
		}

		// Admin; role checks happen in the usecases
		admin := v1.Group("/admin")
		{
			admin.GET("/accounts", d.adminHandler.ListAccounts)
			admin.PATCH("/accounts/:id/role", d.adminHandler.ChangeRole)
			admin.DELETE("/accounts/:id", d.adminHandler.RemoveAccount)
			admin.POST("/investments/:id/approve", d.investmentHandler.Approve)
			admin.POST("/investments/:id/reject", d.investmentHandler.Reject)
			admin.POST("/notices", middleware.IdempotencyMiddleware(), d.noticeHandler.Broadcast)
			admin.PUT("/branding", d.settingsHandler.UpdateBranding)
			admin.DELETE("/branding/logo", d.settingsHandler.ResetLogo)
		}
	}
}
