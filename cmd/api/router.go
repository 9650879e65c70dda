package main

import (
	"github.com/gin-gonic/gin"

	"biblioteca-api/internal/shared/middleware"
	"biblioteca-api/pkg/cache"
	"biblioteca-api/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(c.Errors),
		middleware.ErrorHandler(c.Errors),
		middleware.CORS(c.Config.App.CORSOrigins),
		middleware.Authenticate(c.JWTManager),
	)

	router.GET("/health", c.SystemHandler.Health)
	if c.Config.Storage.Driver == "local" {
		router.Static("/static", c.Config.Storage.LocalDir)
	}

	api := router.Group("/api")
	{
		api.GET("/root", c.SystemHandler.Root)

		setupAuthorRoutes(api, c)
		setupBookRoutes(api, c)
		setupCommentRoutes(api, c)
		setupRatingRoutes(api, c)
		setupUserRoutes(api, c)
	}

	return router
}

// cached stores anonymous GET responses under tag
func cached(c *container.Container, tag string) gin.HandlerFunc {
	return middleware.OutputCache(c.Cache, c.Config.Cache.TTL, tag)
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(api *gin.RouterGroup, c *container.Container) {
	h := c.AuthorHandler
	admin := middleware.RequireAdmin()

	authors := api.Group("/authors")
	{
		authors.GET("", cached(c, cache.TagAuthors), h.List)
		authors.GET("/filter", cached(c, cache.TagAuthors), h.Filter)
		authors.GET("/:id", cached(c, cache.TagAuthors), h.GetByID)
		authors.POST("", admin, h.Create)
		authors.POST("/with-photo", admin, h.CreateWithPhoto)
		authors.PUT("/:id", admin, h.Update)
		authors.PATCH("/:id", admin, h.Patch)
		authors.DELETE("/:id", admin, h.Delete)
	}

	collection := api.Group("/authors-collection", admin)
	{
		collection.GET("/:ids", h.GetCollection)
		collection.POST("", h.CreateCollection)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	h := c.BookHandler
	admin := middleware.RequireAdmin()

	books := api.Group("/books")
	{
		books.GET("", cached(c, cache.TagBooks), h.List)
		books.GET("/:id", cached(c, cache.TagBooks), h.GetByID)
		books.POST("", admin, h.Create)
		books.PUT("/:id", admin, h.Update)
		books.DELETE("/:id", admin, h.Delete)
	}
}

// ========================================
// COMMENT ROUTES
// ========================================
func setupCommentRoutes(api *gin.RouterGroup, c *container.Container) {
	h := c.CommentHandler
	authed := middleware.RequireAuth()

	comments := api.Group("/books/:id/comments")
	{
		comments.GET("", cached(c, cache.TagComments), h.List)
		comments.GET("/:commentId", cached(c, cache.TagComments), h.Get)
		comments.POST("", authed, h.Create)
		comments.PATCH("/:commentId", authed, h.Patch)
		comments.DELETE("/:commentId", authed, h.Delete)
	}
}

// ========================================
// RATING ROUTES
// ========================================
func setupRatingRoutes(api *gin.RouterGroup, c *container.Container) {
	h := c.RatingHandler
	authed := middleware.RequireAuth()

	read := []gin.HandlerFunc{cached(c, cache.TagRatings), h.Get}
	if !c.Config.Ratings.AllowAnonymousRead {
		read = append([]gin.HandlerFunc{authed}, read...)
	}

	ratings := api.Group("/ratings")
	{
		ratings.GET("/:bookId", read...)
		ratings.POST("", authed, h.Create)
		ratings.PUT("", authed, h.Update)
		ratings.DELETE("/:bookId", authed, h.Delete)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(api *gin.RouterGroup, c *container.Container) {
	h := c.UserHandler
	authed := middleware.RequireAuth()
	admin := middleware.RequireAdmin()

	users := api.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)

		users.GET("/me", authed, h.Me)
		users.PUT("", authed, h.Update)
		users.GET("/renew-token", authed, h.RenewToken)

		users.GET("", admin, cached(c, cache.TagUsers), h.List)
		users.POST("/make-admin", admin, h.MakeAdmin)
		users.POST("/remove-admin", admin, h.RemoveAdmin)
	}
}
