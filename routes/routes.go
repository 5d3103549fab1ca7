package routes

import (
	"github.com/CSteenkamp/shuttle-booking-sub001/config"
	"github.com/CSteenkamp/shuttle-booking-sub001/controllers"
	"github.com/CSteenkamp/shuttle-booking-sub001/middleware"
	"github.com/CSteenkamp/shuttle-booking-sub001/websocket"
	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	r := gin.Default()

	// Initialize controllers
	authController := controllers.NewAuthController()
	bookingController := controllers.NewBookingController()
	paymentController := controllers.NewPaymentController()
	userController := controllers.NewUserController()
	adminController := controllers.NewAdminController()

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/register", authController.Register)

		// External payment gateway notification endpoint
		public.POST("/payments/notify", paymentController.Notify)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())
	{
		// Profile & credits
		protected.GET("/profile", userController.GetProfile)
		protected.GET("/credits", userController.GetBalance)
		protected.GET("/credits/history", userController.GetLedgerHistory)

		// Riders
		protected.POST("/riders", userController.CreateRider)
		protected.GET("/riders", userController.GetRiders)

		// Trips & reservations
		protected.GET("/locations", userController.GetLocations)
		protected.GET("/trips", bookingController.GetTrips)
		protected.GET("/trips/:id", bookingController.GetTrip)
		protected.GET("/reservations", bookingController.GetMyReservations)
		protected.POST("/reservations", bookingController.CreateReservation)
		protected.DELETE("/reservations/:id", bookingController.CancelReservation)

		// Credit purchases
		protected.GET("/packages", paymentController.GetPackages)
		protected.POST("/payments/initiate", paymentController.InitiatePurchase)
		protected.GET("/payments", paymentController.GetMyTransactions)

		// Live event feed
		protected.GET("/ws", websocket.HandleWebSocket(config.WSHub))
	}

	// Admin only routes
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminOnly())
	{
		// User management
		admin.POST("/users", adminController.CreateUser)
		admin.GET("/users", adminController.GetUsers)

		// Credit management
		admin.POST("/credits/adjust", adminController.AdjustCredits)
		admin.GET("/credits/:id/check", adminController.CheckLedger)

		// Destinations & pricing
		admin.POST("/destinations", adminController.CreateDestination)
		admin.GET("/destinations", adminController.GetDestinations)
		admin.PUT("/destinations/:id/tiers", adminController.SetPricingTiers)
		admin.POST("/locations", adminController.CreateLocation)

		// Trip management
		admin.POST("/trips", adminController.CreateTrip)
		admin.DELETE("/trips/:id", adminController.CancelTrip)
		admin.GET("/trips/:id/reservations", adminController.GetTripReservations)

		// Packages & payments
		admin.POST("/packages", adminController.CreatePackage)
		admin.GET("/payments", adminController.GetPayments)

		// Time blocks
		admin.POST("/time-blocks", adminController.CreateTimeBlock)
		admin.GET("/time-blocks", adminController.GetTimeBlocks)
	}

	return r
}
