package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ridemarket/internal/handler"
	"ridemarket/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler    *handler.RideHandler
	PartnerHandler *handler.PartnerHandler
	UserHandler    *handler.UserHandler
	AdminHandler   *handler.AdminHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("", deps.UserHandler.Register)
			users.GET("/:id", deps.UserHandler.GetUser)
			users.GET("/:id/rides", deps.UserHandler.ListRides)
		}

		// Ride lifecycle routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", deps.RideHandler.GetAll)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/accept", deps.RideHandler.AcceptRide)
			rides.POST("/:id/arrived", deps.RideHandler.MarkArrived)
			rides.POST("/:id/start", deps.RideHandler.StartRide)
			rides.POST("/:id/complete", deps.RideHandler.CompleteRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
		}

		// Partner routes.
		partners := v1.Group("/partners")
		{
			partners.POST("", deps.PartnerHandler.Register)
			partners.GET("/:id", deps.PartnerHandler.GetPartner)
			partners.POST("/:id/location", deps.PartnerHandler.UpdateLocation)
			partners.POST("/:id/offline", deps.PartnerHandler.GoOffline)
			partners.GET("/:id/available-rides", deps.PartnerHandler.DiscoverRides)
			partners.GET("/:id/rides", deps.PartnerHandler.ListRides)
		}

		// Administrative routes.
		admin := v1.Group("/admin")
		{
			admin.POST("/rides/:id/assign", deps.AdminHandler.AssignRide)
			admin.POST("/rides/:id/status", deps.AdminHandler.OverrideStatus)
			admin.GET("/pricing", deps.AdminHandler.GetPricing)
			admin.PUT("/pricing", deps.AdminHandler.UpdatePricing)
			admin.PUT("/pricing/city", deps.AdminHandler.UpsertCityPricing)
			admin.POST("/users/:id/otp", deps.AdminHandler.RegenerateOTP)
		}
	}

	return router
}
