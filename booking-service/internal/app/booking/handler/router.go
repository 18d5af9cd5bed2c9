package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trahy/pkg/logger"
	"trahy/pkg/metrics"
)

const serviceName = "booking-service"

type Handlers struct {
	Property     *PropertyHandler
	Review       *ReviewHandler
	Booking      *BookingHandler
	Verification *VerificationHandler
	Payment      *PaymentHandler
	Health       *HealthCheckHandler
}

// SetupRoutes wires every HTTP route of the service.
func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", h.Health.HealthCheck)
	router.GET("/health/readiness", h.Health.Readiness)
	router.GET("/health/liveness", h.Health.Liveness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authenticated := authMiddleware.Authenticate()
	adminOnly := authMiddleware.RequireRole(RoleAdmin)

	properties := router.Group("/properties/:identifier")
	{
		properties.GET("", h.Property.GetProperty)
		properties.GET("/rooms", h.Property.ListRooms)
		properties.GET("/reviews", h.Review.ListReviews)
		properties.POST("/reviews", authenticated, h.Review.CreateReview)
		properties.PATCH("/reviews/:review_id", authenticated, adminOnly, h.Review.EditReview)
		properties.DELETE("/reviews/:review_id", authenticated, adminOnly, h.Review.DeleteReview)
		properties.POST("/rating/recompute", authenticated, adminOnly, h.Review.RecomputeRating)
	}

	bookings := router.Group("/bookings")
	bookings.Use(authenticated)
	{
		bookings.POST("", h.Booking.CreateBooking)
		bookings.GET("/mine", h.Booking.ListMyBookings)
		bookings.GET("/:booking_id", h.Booking.GetBooking)
		bookings.POST("/:booking_id/cancel", h.Booking.CancelBooking)
		bookings.POST("/:booking_id/tickets", h.Booking.OpenTicket)
		bookings.POST("/:booking_id/replies", adminOnly, h.Booking.Reply)
		bookings.PUT("/:booking_id/dates", adminOnly, h.Booking.AmendDates)
	}

	admin := router.Group("/admin")
	admin.Use(authenticated, adminOnly)
	{
		admin.GET("/tickets", h.Booking.ListOpenTickets)
		admin.POST("/users/:user_id/verification", h.Verification.Decide)
	}

	// The gateway redirects the guest's browser here; no token is available.
	router.GET("/payments/callback", h.Payment.Callback)

	return router
}
