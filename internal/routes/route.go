package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/localinsights/internal/container"
	"github.com/joshua-takyi/localinsights/internal/handlers"
	"github.com/joshua-takyi/localinsights/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.SessionTokenHeader},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())
	r.Use(container.Monitor.Middleware())

	if cfg.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "localinsights-api",
			})
		})
	}

	// everything below belongs to a device
	device := v1.Group("/")
	device.Use(middleware.Session(middleware.SessionConfig{
		Secret: []byte(cfg.SessionSecret),
		TTL:    cfg.SessionTTL,
		Secure: cfg.IsProduction(),
	}, container.Logger))

	device.GET("/state", handlers.GetState(container.StateService))

	eventRoutes := device.Group("/events")
	{
		eventRoutes.GET("", handlers.ListEvents(container.CatalogueService))
		eventRoutes.GET("/filtered", handlers.FilteredEvents(container.CatalogueService))
		eventRoutes.GET("/:id", handlers.GetEvent(container.CatalogueService))
	}

	device.GET("/artists", handlers.ListArtists(container.CatalogueService))

	filterRoutes := device.Group("/filters")
	{
		filterRoutes.GET("", handlers.GetFilters(container.CatalogueService))
		filterRoutes.PATCH("", handlers.UpdateFilters(container.CatalogueService))
	}

	wishlistRoutes := device.Group("/wishlist")
	{
		wishlistRoutes.GET("", handlers.GetWishlist(container.WishlistService))
		wishlistRoutes.POST("", handlers.AddToWishlist(container.WishlistService))
		wishlistRoutes.GET("/summary", handlers.WishlistSummary(container.WishlistService))
		wishlistRoutes.GET("/calendar.ics", handlers.WishlistCalendar(container.WishlistService))
		wishlistRoutes.POST("/:id", handlers.AddToWishlist(container.WishlistService))
		wishlistRoutes.DELETE("/:id", handlers.RemoveFromWishlist(container.WishlistService))
		wishlistRoutes.POST("/:id/toggle", handlers.ToggleWishlist(container.WishlistService))
	}

	// only credential-handling routes are limited; /me is polled freely
	authLimit := middleware.RateLimit(cfg.AuthRatePerMinute, cfg.AuthRateBurst)
	authRoutes := device.Group("/auth")
	{
		authRoutes.POST("/login", authLimit, handlers.Login(container.AuthService))
		authRoutes.POST("/register", authLimit, handlers.Register(container.AuthService))
		authRoutes.POST("/logout", authLimit, handlers.Logout(container.AuthService))
		authRoutes.GET("/me", handlers.Me(container.AuthService))
	}

	postRoutes := device.Group("/posts")
	{
		postRoutes.GET("", handlers.ListPosts(container.CommunityService))
		postRoutes.POST("", handlers.CreatePost(container.CommunityService))
		postRoutes.GET("/liked", handlers.LikedPosts(container.CommunityService))
		postRoutes.POST("/:id/like", handlers.ToggleLike(container.CommunityService))
		postRoutes.POST("/:id/comments", handlers.AddComment(container.CommunityService))
	}

	prefRoutes := device.Group("/preferences")
	{
		prefRoutes.GET("", handlers.GetPreferences(container.PreferencesService))
		prefRoutes.PUT("", handlers.UpdatePreferences(container.PreferencesService))
		prefRoutes.POST("/theme/toggle", handlers.ToggleTheme(container.PreferencesService))
	}

	profileRoutes := device.Group("/profile")
	{
		profileRoutes.GET("", handlers.GetProfile(container.ProfileService))
		profileRoutes.PUT("", handlers.SaveProfile(container.ProfileService))
	}

	return r
}
