package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksread/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Session must load before CSRF and auth can read it
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// CSRF protection for cookie-authenticated requests
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Next()
		})
	}

	// Register auth routes if enabled
	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	searchController := NewSearchController(cfg.Ingestor)
	booksController := NewBooksController(cfg.BooksRepo)
	ownedController := NewOwnedController(cfg.OwnedRepo, cfg.BooksRepo)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Search (external catalog ingestion)
	router.POST("/api/search", searchController.Search)

	// Shared catalog endpoints
	router.GET("/api/books", booksController.List)
	router.GET("/api/books/:id", booksController.Get)

	// Per-user tracking endpoints
	router.GET("/api/owned", ownedController.List)
	router.POST("/api/owned", ownedController.Add)
	router.DELETE("/api/owned/:id", ownedController.Remove)
	router.POST("/api/owned/:id/rate", ownedController.Rate)
	router.POST("/api/owned/:id/review", ownedController.Review)
	router.POST("/api/owned/:id/toggleread", ownedController.ToggleRead)

	return router
}
