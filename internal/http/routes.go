package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ghdash/internal/apipaths"
	"github.com/ghdash/internal/constants"
)

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Health check endpoint (no auth, no rate limit)
	s.engine.GET(apipaths.Health, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": constants.SessionIssuer,
		})
	})

	// The callback lives wherever GITHUB_CALLBACK_URL points
	s.engine.GET(s.callbackPath, rateLimitMiddleware(s.limiter), s.callback)

	api := s.engine.Group("/api")
	api.Use(rateLimitMiddleware(s.limiter))
	{
		s.setupAuthRoutes(api)

		protected := api.Group("")
		protected.Use(s.requireAuth())
		{
			s.setupRepoRoutes(protected)
		}
	}

	s.setupStaticRoutes()
}

func (s *Server) setupAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.GET("/login", s.login)
		auth.POST("/signout", s.signOut)
		auth.GET("/me", s.requireAuth(), s.getCurrentUser)
	}
}

func (s *Server) setupRepoRoutes(api *gin.RouterGroup) {
	api.GET("/search", s.searchRepos)

	repos := api.Group("/repo")
	{
		repos.GET("", s.listRepos)
		repos.GET("/search", s.searchRepos)
		repos.GET("/:id", s.getRepo)
		repos.GET("/:id/issues", s.listRepoIssues)
		repos.GET("/:id/pull", s.listRepoPulls)
		// :id is the owner login here
		repos.GET("/:id/:repo/issues", s.listNamedRepoIssues)
		repos.GET("/:id/:repo/pull", s.listNamedRepoPulls)
	}

	named := api.Group("/repos/:owner/:repo")
	{
		named.GET("/issues", s.listNamedRepoIssues)
		named.GET("/pull", s.listNamedRepoPulls)
	}
}

// setupStaticRoutes serves the built frontend. Unknown non-API paths fall
// back to index.html so client-side routes survive a reload.
func (s *Server) setupStaticRoutes() {
	dir := s.config.StaticDir
	if dir != "" {
		s.engine.Static("/assets", filepath.Join(dir, "assets"))
	}

	s.engine.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if dir == "" || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, ErrorResponse{Code: "NOT_FOUND", Message: "Route not found"})
			return
		}

		if file := filepath.Join(dir, filepath.Clean("/"+path)); path != "/" && isFile(file) {
			c.File(file)
			return
		}

		index := filepath.Join(dir, "index.html")
		if !isFile(index) {
			c.JSON(http.StatusNotFound, ErrorResponse{Code: "NOT_FOUND", Message: "Frontend not built"})
			return
		}
		c.File(index)
	})
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
