package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/envents/envents-server/internal/container"
	"github.com/envents/envents-server/internal/handlers"
	"github.com/envents/envents-server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "envents-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.Register(container.UserService))
		v1.POST("/login", handlers.Login(container.UserService))
		v1.POST("/logout", handlers.Logout())

		// public browsing
		v1.GET("/venues", handlers.BrowseVenues(container.VenueService))
		v1.GET("/venues/slug/:slug", handlers.GetVenueBySlug(container.VenueService, container.AnalyticsService))
		v1.GET("/venues/cities", handlers.VenueCities(container.VenueService))
		v1.GET("/venues/categories", handlers.VenueCategories(container.VenueService))
		v1.GET("/venues/:id", handlers.GetVenue(container.VenueService, container.AnalyticsService))
		v1.GET("/services", handlers.BrowseServices(container.ListingService))
		v1.GET("/services/slug/:slug", handlers.GetServiceBySlug(container.ListingService, container.AnalyticsService))
		v1.GET("/services/categories", handlers.ServiceCategories(container.ListingService))
		v1.GET("/services/:id", handlers.GetService(container.ListingService, container.AnalyticsService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.UserService, container.Logger))

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("/me", handlers.GetProfile(container.UserService))
		userRoutes.PATCH("/me", handlers.UpdateProfile(container.UserService))
		userRoutes.DELETE("/me", handlers.DeleteAccount(container.UserService))
	}

	venueRoutes := protected.Group("/venues")
	{
		venueRoutes.POST("/", handlers.SubmitVenue(container.VenueService))
		venueRoutes.PUT("/:id", handlers.UpdateVenue(container.VenueService))
		venueRoutes.DELETE("/:id", handlers.DeleteVenue(container.VenueService))
		venueRoutes.GET("/mine", handlers.MyVenues(container.VenueService))
	}

	serviceRoutes := protected.Group("/services")
	{
		serviceRoutes.POST("/", handlers.SubmitService(container.ListingService))
		serviceRoutes.PUT("/:id", handlers.UpdateService(container.ListingService))
		serviceRoutes.DELETE("/:id", handlers.DeleteService(container.ListingService))
		serviceRoutes.GET("/mine", handlers.MyServices(container.ListingService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("/venue", handlers.CreateVenueBooking(container.BookingService))
		bookingRoutes.POST("/services", handlers.CreateServiceBooking(container.BookingService))
		bookingRoutes.GET("/", handlers.ListMyBookings(container.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(container.BookingService))
		bookingRoutes.POST("/:id/services", handlers.AddBookingService(container.BookingService))
		bookingRoutes.DELETE("/:id/services/:serviceId", handlers.RemoveBookingService(container.BookingService))
		bookingRoutes.PUT("/:id/catering", handlers.SetBookingCatering(container.BookingService))
		bookingRoutes.DELETE("/:id/catering", handlers.ClearBookingCatering(container.BookingService))
		bookingRoutes.POST("/:id/accept-quote", handlers.AcceptQuotation(container.BookingService))
		bookingRoutes.POST("/:id/cancel", handlers.CancelBooking(container.BookingService))
	}

	favouriteRoutes := protected.Group("/favourites")
	{
		favouriteRoutes.POST("/", handlers.AddFavourite(container.FavouriteService))
		favouriteRoutes.GET("/", handlers.GetFavourites(container.FavouriteService))
		favouriteRoutes.DELETE("/:listingId", handlers.RemoveFavourite(container.FavouriteService))
	}

	statsRoutes := protected.Group("/stats")
	{
		statsRoutes.GET("/views", handlers.OwnerViewStats(container.AnalyticsService))
	}

	adminRoutes := protected.Group("/admin")
	{
		adminRoutes.GET("/bookings", handlers.AdminListBookings(container.BookingService))
		adminRoutes.POST("/bookings/transition", handlers.BulkTransitionBookings(container.BookingService))
		adminRoutes.POST("/bookings/quote", handlers.BulkQuoteBookings(container.BookingService))
		adminRoutes.POST("/bookings/payment", handlers.BulkMarkPayment(container.BookingService))
		adminRoutes.GET("/venues/pending", handlers.PendingVenues(container.VenueService))
		adminRoutes.POST("/venues/:id/moderate", handlers.ModerateVenue(container.VenueService))
		adminRoutes.GET("/services/pending", handlers.PendingServices(container.ListingService))
		adminRoutes.POST("/services/:id/moderate", handlers.ModerateService(container.ListingService))
	}

	return r
}
