package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"summarist-backend-go/internal/api"
	"summarist-backend-go/internal/billing"
	"summarist-backend-go/internal/cache"
	"summarist-backend-go/internal/config"
	"summarist-backend-go/internal/core"
	"summarist-backend-go/internal/db"
	"summarist-backend-go/internal/middleware"
)

func main() {
	// A missing .env is fine in deployed environments; configuration comes
	// from real environment variables there.
	_ = godotenv.Load()

	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load application configuration: %v", err)
	}

	var zapLogger *zap.Logger
	if strings.ToLower(appConfig.GinMode) == "release" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("configuration loaded", zap.String("ginMode", appConfig.GinMode))

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()
	clients, err := db.InitFirebase(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized")

	// Repositories.
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	subscriptionRepo := db.NewFirestoreSubscriptionRepository(clients.Firestore)
	checkoutRepo := db.NewFirestoreCheckoutSessionRepository(clients.Firestore)
	libraryRepo := db.NewFirestoreLibraryRepository(clients.Firestore)
	bookRepo := db.NewFirestoreBookRepository(clients.Firestore)
	eventRepo := db.NewFirestoreWebhookEventRepository(clients.Firestore)
	authDirectory := db.NewFirebaseAuthDirectory(clients.Auth)

	// Billing provider and optional entitlement cache.
	stripeClient := billing.NewStripeClient(appConfig.StripeSecretKey, appConfig.StripeWebhookSecret, zapLogger)

	statusCache := cache.NewNoopCache()
	if appConfig.RedisEnabled() {
		statusCache, err = cache.NewRedisEntitlementCache(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to connect to Redis", zap.String("addr", appConfig.RedisAddr), zap.Error(err))
		}
		zapLogger.Info("entitlement cache enabled", zap.String("addr", appConfig.RedisAddr))
	} else {
		zapLogger.Info("entitlement cache disabled, REDIS_ADDR not set")
	}

	// Services.
	planTable := core.NewPlanTable(appConfig)
	userService := core.NewUserService(userRepo, subscriptionRepo, libraryRepo, stripeClient, statusCache, zapLogger)
	billingService := core.NewBillingService(userRepo, subscriptionRepo, checkoutRepo, eventRepo, authDirectory, stripeClient, planTable, statusCache, zapLogger)
	entitlementService := core.NewEntitlementService(subscriptionRepo, statusCache, zapLogger)
	libraryService := core.NewLibraryService(libraryRepo, zapLogger)
	bookService := core.NewBookService(bookRepo)

	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
	} else {
		zapLogger.Warn("CORS middleware skipped, CLIENT_URL is not configured")
	}

	api.SetupRoutes(
		router,
		clients.Auth,
		zapLogger,
		userService,
		billingService,
		entitlementService,
		libraryService,
		bookService,
	)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("forced server shutdown", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
