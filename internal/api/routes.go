package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {

	// --- Site generation ---
	siteGroup := router.Group("/site")
	{
		siteGroup.GET("/templates", h.ListTemplates)
		siteGroup.POST("/generate", h.requireSignedIn, h.GenerateSite)
		siteGroup.GET("/preview", h.requireSignedIn, h.PreviewSite)
		siteGroup.GET("/download", h.requireSignedIn, h.DownloadSite)
	}

	// --- Mock auth ---
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/verify", h.Verify) // OTP step, any code passes
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/session", h.SessionState)
	}

	// --- Admin dashboard ---
	adminGroup := router.Group("/admin", h.requireAdmin)
	{
		adminGroup.GET("/users", h.ListUsers)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
