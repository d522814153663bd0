package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/epeers/eclengine/config"
	_ "github.com/epeers/eclengine/docs"
	"github.com/epeers/eclengine/internal/calculators"
	"github.com/epeers/eclengine/internal/database"
	"github.com/epeers/eclengine/internal/handlers"
	"github.com/epeers/eclengine/internal/middleware"
	"github.com/epeers/eclengine/internal/repository"
	"github.com/epeers/eclengine/internal/services"
)

// @title ECL Engine API
// @version 1.0
// @description IFRS9 expected credit loss calculation service
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ApplyLogLevel()

	// Create context for initialization
	ctx := context.Background()

	// Initialize database connection
	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	runRepo := repository.NewRunRepository(db.Pool)
	resultRepo := repository.NewResultRepository(db.Pool)

	// Initialize calculator registry and services
	registry := calculators.NewRegistry()
	calcSvc := services.NewCalculationService(registry)
	aggSvc := services.NewAggregationService()

	// Initialize handlers
	calcHandler := handlers.NewCalculationHandler(calcSvc, aggSvc, runRepo, resultRepo, handlers.Defaults{
		StepMonths: cfg.StepMonths,
		Strict:     cfg.StrictValidation,
	})
	runHandler := handlers.NewRunHandler(runRepo, resultRepo)

	// Setup Gin router
	router := gin.Default()

	// Apply global middleware
	router.Use(middleware.IdentifyCaller())
	router.Use(middleware.RequestLogger())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Calculation routes
	router.POST("/calculations", calcHandler.Run)
	router.POST("/calculations/csv", calcHandler.RunCSV)
	router.GET("/calculations/variants", calcHandler.Variants)

	// Run routes
	router.GET("/runs", runHandler.List)
	router.GET("/runs/:id", runHandler.Get)
	router.GET("/runs/:id/results", runHandler.Results)
	router.GET("/runs/:id/export", runHandler.Export)

	// API documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
