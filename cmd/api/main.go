package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vipoffers/consent-api/internal/config"
	"github.com/vipoffers/consent-api/internal/geoip"
	"github.com/vipoffers/consent-api/internal/handlers"
	"github.com/vipoffers/consent-api/internal/logging"
	"github.com/vipoffers/consent-api/internal/middleware"
	"github.com/vipoffers/consent-api/internal/observability"
	"github.com/vipoffers/consent-api/internal/services"
	"github.com/vipoffers/consent-api/internal/sms"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	// Initialize database connections
	config.InitMongoDB()
	config.InitRedis()

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wire services to their external clients
	geoClient := geoip.NewClient(config.AppConfig.GeoIPBaseURL)
	smsClient := sms.NewClient(sms.Config{
		AccountSID: config.AppConfig.TwilioAccountSID,
		AuthToken:  config.AppConfig.TwilioAuthToken,
		FromNumber: config.AppConfig.TwilioFromNumber,
		BaseURL:    config.AppConfig.TwilioBaseURL,
	})

	consentService := services.NewConsentService(geoClient, logging.Logger)
	notificationService := services.NewNotificationService(smsClient, logging.Logger)

	consentHandlers := handlers.NewConsentHandlers(consentService)
	discountHandlers := handlers.NewDiscountHandlers(notificationService)

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint
	router.GET("/health", handlers.HealthCheck)

	// API routes
	router.POST("/send-discount", discountHandlers.SendDiscount)
	router.POST("/save-consent", consentHandlers.SaveConsent)
	router.POST("/get-consent", consentHandlers.GetConsent)
	router.POST("/update-consent", consentHandlers.UpdateConsent)

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("server exited gracefully")
}
