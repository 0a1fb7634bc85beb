package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"complaint-service/classify"
	"complaint-service/config"
	"complaint-service/database"
	"complaint-service/email"
	"complaint-service/handlers"
	"complaint-service/metrics"
	"complaint-service/middleware"
	"complaint-service/push"
	"complaint-service/rabbitmq"
	"complaint-service/service"
	"complaint-service/storage"
	"complaint-service/version"

	apexlog "github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if level, err := apexlog.ParseLevel(cfg.LogLevel); err == nil {
		apexlog.SetLevel(level)
	}

	metrics.Register()

	// Create database connection
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal("Failed to create database connection:", err)
	}
	defer db.Close()

	// Ensure complaint tables exist
	if err := database.EnsureTables(context.Background(), db); err != nil {
		log.Fatal("Failed to ensure complaint tables:", err)
	}

	complaintStore := database.NewComplaintService(db)
	profileStore := database.NewProfileService(db)

	// External service clients
	classifier := classify.NewClient(cfg.InferenceURL, cfg.InferenceTimeout)
	pushClient := push.NewClient(cfg.PushURL, cfg.PushTimeout)
	dispatcher := push.NewDispatcher(pushClient, cfg.PushWorkers, cfg.PushQueueSize,
		cfg.PushTimeout, cfg.BreakerThreshold, cfg.BreakerCooldown)

	// Initialize RabbitMQ publisher for complaint events
	var publisher *rabbitmq.Publisher
	p, err := rabbitmq.NewPublisher(cfg.GetAMQPURL(), cfg.RabbitMQExchange, cfg.RabbitMQFiledRoutingKey)
	if err != nil {
		log.Printf("Warning: Failed to initialize RabbitMQ publisher: %v", err)
		log.Printf("Complaint events will not be published. Continuing without RabbitMQ...")
	} else {
		publisher = p
		log.Printf("RabbitMQ publisher initialized: exchange=%s", cfg.RabbitMQExchange)
	}

	opts := service.Options{
		Classifier:       classifier,
		Images:           storage.NewDiskStore(cfg.ImagesDir),
		Notifier:         dispatcher,
		FiledRoutingKey:  cfg.RabbitMQFiledRoutingKey,
		StatusRoutingKey: cfg.RabbitMQStatusRoutingKey,
	}
	if publisher != nil {
		opts.Events = publisher
	}
	if cfg.SendGridAPIKey != "" {
		opts.Mail = email.NewSender(cfg)
	}

	lifecycle := service.NewComplaintLifecycle(complaintStore, profileStore, opts)

	// Create handlers
	h := handlers.NewHandlers(lifecycle, profileStore)

	// Setup HTTP server
	router := setupRouter(h)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// Drain queued notifications before exiting
	dispatcher.Stop()

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Printf("Failed to close RabbitMQ publisher: %v", err)
		}
	}

	log.Println("Server exited")
}

func setupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeaders())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v3")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/version", func(c *gin.Context) {
			c.JSON(http.StatusOK, version.Get("complaint-service"))
		})

		api.POST("/complaints", h.CreateComplaint)
		api.GET("/complaints", h.ListComplaints)
		api.GET("/complaints/nearby", h.ListNearby)
		api.GET("/complaints/:id", h.GetComplaint)
		api.PUT("/complaints/:id", h.UpdateStatus)
		api.PUT("/complaints/:id/feedback", h.SetFeedback)

		api.GET("/categories", h.ListCategories)
		api.GET("/categories/suggest", h.SuggestCategory)

		api.POST("/profiles/push-token", h.UpdatePushToken)
	}

	return router
}
