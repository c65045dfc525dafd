// Package httpapi exposes the assistant over HTTP: chat, session management,
// a KV debug endpoint, and product file upload.
package httpapi

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jslattery/product-agent/internal/runner"
	"github.com/jslattery/product-agent/internal/safety"
	"github.com/jslattery/product-agent/internal/session"
	"github.com/jslattery/product-agent/tools"
)

// Server wires the agent loop and its stores into HTTP handlers.
type Server struct {
	Runner     *runner.Runner
	Store      session.Store
	Classifier safety.Classifier
	Tools      []tools.Definition
	DataDir    string
	StaticDir  string
}

// NewRouter builds the gin engine with CORS, health, API routes, and the
// optional static frontend.
func (s *Server) NewRouter() *gin.Engine {
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Session-Id"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.POST("/clear_session", s.handleClearSession)
		api.POST("/debug_kv", s.handleDebugKV)
		api.POST("/upload", s.handleUpload)
	}

	if s.StaticDir != "" {
		if _, err := os.Stat(s.StaticDir); err == nil {
			router.Static("/static", s.StaticDir)
			router.StaticFile("/", s.StaticDir+"/index.html")
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
