package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coopbus/ticketing-backend/internal/config"
	"github.com/coopbus/ticketing-backend/internal/database"
	"github.com/coopbus/ticketing-backend/internal/handlers"
	"github.com/coopbus/ticketing-backend/internal/middleware"
	"github.com/coopbus/ticketing-backend/internal/services"
	"github.com/coopbus/ticketing-backend/pkg/jwt"
	"github.com/coopbus/ticketing-backend/pkg/notify"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting CoopBus Ticketing Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	tripRepository := database.NewTripRepository(db.DB)
	routeRepository := database.NewRouteRepository(db.DB)
	seatRepository := database.NewSeatRepository(db.DB)
	occupationRepository := database.NewOccupationRepository(db.DB)
	saleRepository := database.NewSaleRepository(db.DB)
	clientRepository := database.NewClientRepository(db.DB)
	ruleRepository := database.NewDiscountRuleRepository(db.DB)
	methodRepository := database.NewPaymentMethodRepository(db.DB)
	staffRepository := database.NewStaffRepository(db.DB)
	auditRepository := database.NewSaleAuditRepository(db.DB, logger)

	// Initialize notification gateway and worker
	var sender notify.Sender
	if cfg.Notify.Mode == "production" {
		logger.Info("Initializing notification gateway in production mode...")
		sender = notify.NewHTTPGateway(notify.HTTPGatewayConfig{
			BaseURL: cfg.Notify.GatewayURL,
			APIKey:  cfg.Notify.APIKey,
		})
	} else {
		logger.Info("Notification gateway in development mode (messages are logged only)")
		sender = notify.NewDevGateway(logger)
	}
	notifyWorker := notify.NewWorker(sender, logger, cfg.Notify.SendInterval, cfg.Notify.QueueSize)
	notifyWorker.Start()

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	txOpts := database.TxOptions{
		Timeout:    cfg.Sale.TxTimeout,
		MaxRetries: cfg.Sale.MaxRetries,
		Backoff:    cfg.Sale.RetryBackoff,
	}
	discountService := services.NewDiscountService(logger)
	saleService := services.NewSaleService(
		db.DB,
		tripRepository,
		routeRepository,
		seatRepository,
		occupationRepository,
		saleRepository,
		clientRepository,
		ruleRepository,
		methodRepository,
		staffRepository,
		discountService,
		notifyWorker,
		txOpts,
		logger,
	)
	lifecycleService := services.NewSaleLifecycleService(
		db.DB,
		saleRepository,
		occupationRepository,
		tripRepository,
		notifyWorker,
		txOpts,
		logger,
	)
	auditService := services.NewAuditService(auditRepository, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	saleHandler := handlers.NewSaleHandler(saleService, lifecycleService, auditService)
	discountHandler := handlers.NewDiscountHandler(clientRepository, ruleRepository, discountService)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes (all protected)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(jwtService))
	{
		sales := v1.Group("/sales")
		{
			sales.POST("", saleHandler.CreateSale)
			sales.GET("/:id", saleHandler.GetSale)
			sales.POST("/:id/confirm-payment", saleHandler.ConfirmPayment)
			sales.POST("/:id/cancel", saleHandler.CancelSale)
			sales.POST("/:id/verifying", saleHandler.MarkVerifying)
		}

		trips := v1.Group("/trips")
		{
			trips.GET("/:id/availability", saleHandler.QueryAvailability)
		}

		clients := v1.Group("/clients")
		{
			clients.GET("/:id/discount", discountHandler.GetClientDiscount)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	// Drain queued notifications after the listener is closed
	logger.Info("Stopping notification worker...")
	notifyWorker.Stop()

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if actor, exists := middleware.GetActorContext(c); exists {
			fields["actor_id"] = actor.ActorID
			fields["tenant_id"] = actor.TenantID
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("Request failed with errors")
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
