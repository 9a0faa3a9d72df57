package api

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summarist-backend-go/internal/core"
	"summarist-backend-go/internal/middleware"
)

// SetupRoutes wires all application routes. Global middleware (logging,
// recovery, CORS) is applied to the router in main before this is called.
func SetupRoutes(
	router *gin.Engine,
	authClient *auth.Client,
	logger *zap.Logger,
	userService core.UserService,
	billingService core.BillingService,
	entitlementService core.EntitlementService,
	libraryService core.LibraryService,
	bookService core.BookService,
) {
	authMW := middleware.NewAuthMiddleware(authClient, logger)

	authHandler := NewAuthHandler(userService, logger)
	userHandler := NewUserHandler(userService, logger)
	billingHandler := NewBillingHandler(billingService, entitlementService, logger)
	libraryHandler := NewLibraryHandler(libraryService, logger)
	bookHandler := NewBookHandler(bookService, logger)

	apiV1 := router.Group("/api/v1")
	{
		usersGroup := apiV1.Group("/users")
		{
			// Called after client-side Firebase sign-in to ensure the backend
			// profile exists.
			usersGroup.POST("/initialize", authMW.VerifyToken(), authHandler.InitializeUserProfile)
			usersGroup.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentUserProfile)
			usersGroup.DELETE("/me", authMW.VerifyToken(), userHandler.DeleteAccount)
		}

		billingGroup := apiV1.Group("/billing")
		{
			billingGroup.GET("/plans", billingHandler.ListPlans)
			billingGroup.POST("/create-checkout-session", authMW.VerifyToken(), billingHandler.CreateCheckoutSession)
			billingGroup.POST("/create-portal-session", authMW.VerifyToken(), billingHandler.CreatePortalSession)
			billingGroup.GET("/premium-status", authMW.VerifyToken(), billingHandler.PremiumStatus)

			// Public: Stripe authenticates with the Stripe-Signature header.
			billingGroup.POST("/webhooks/stripe", billingHandler.HandleStripeWebhook)
		}

		libraryGroup := apiV1.Group("/library", authMW.VerifyToken())
		{
			libraryGroup.GET("", libraryHandler.GetLibrary)
			libraryGroup.POST("", libraryHandler.UpdateLibrary)
		}

		booksGroup := apiV1.Group("/books")
		{
			booksGroup.GET("", bookHandler.ListBooks)
			booksGroup.GET("/:bookId", bookHandler.GetBook)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Summarist backend is healthy."})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
