package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domainRepo "tripdocs-service/internal/domain/repository"
	"tripdocs-service/internal/infrastructure/config"
	"tripdocs-service/internal/infrastructure/persistence"
	typeRouter "tripdocs-service/internal/infrastructure/router"
	"tripdocs-service/internal/interface/httpapi"
	"tripdocs-service/internal/interface/places"
	mongoRepo "tripdocs-service/internal/interface/repository"
	"tripdocs-service/internal/interface/storage"
	"tripdocs-service/internal/interface/vision"
	"tripdocs-service/internal/usecase"
	"tripdocs-service/pkg/logger"
	"tripdocs-service/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Tripdocs Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Optional route-duration reference table
	var routeRepository domainRepo.RouteRepository
	if cfg.PostgresURI != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		routeRepository = mongoRepo.NewGormRouteRepository(gormDB)
	} else {
		log.Info("POSTGRES_DSN not set, using static route table only")
	}

	appMetrics := metrics.NewMetrics("tripdocs")

	// Set up repositories
	documentRepo := mongoRepo.NewMongoDocumentRepository(db)
	batchWriter := mongoRepo.NewMongoTripBatchRepository(mongoClient, db)
	placesClient := places.NewClient(cfg.PlacesBaseURL, cfg.PlacesAPIKey, log)
	fetcher := storage.NewHTTPDocumentFetcher(log)

	// Vision model is optional; without it classification falls back to
	// the filename heuristic and extraction handlers are not registered
	var visionModel domainRepo.VisionModel
	if cfg.VisionConfigured() {
		visionModel = vision.NewAnthropicVisionModel(cfg.AnthropicAPIKey, cfg.VisionModel, log)
	} else {
		log.Warn("ANTHROPIC_API_KEY not set, using filename-based classification only")
	}

	classifier := usecase.NewClassifier(visionModel, log)
	resolver := usecase.NewPlaceResolver(placesClient, appMetrics, log)
	estimator := usecase.NewDurationEstimator(routeRepository, log)
	enricher := usecase.NewEnricher(resolver, estimator, cfg.EnableDurationBackfill, log)

	docRouter := typeRouter.NewTypeRouter(log)
	if visionModel != nil {
		flightExtractor, err := usecase.NewFlightExtractor(visionModel, log)
		if err != nil {
			log.Fatal("Failed to build flight extractor", "error", err)
		}
		hotelExtractor, err := usecase.NewHotelExtractor(visionModel, log)
		if err != nil {
			log.Fatal("Failed to build hotel extractor", "error", err)
		}
		docRouter.Register(usecase.NewFlightDocumentHandler(flightExtractor, enricher, batchWriter, appMetrics, log))
		docRouter.Register(usecase.NewHotelDocumentHandler(hotelExtractor, enricher, batchWriter, appMetrics, log))
	}

	processor := usecase.NewDocumentProcessor(documentRepo, fetcher, classifier, docRouter, appMetrics, log)

	// Start document processor in a goroutine
	go func() {
		processTicker := time.NewTicker(cfg.PollInterval)
		defer processTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Document processor stopped")
				return
			case <-processTicker.C:
				if err := processor.ProcessPendingDocuments(ctx, cfg.PollBatchSize); err != nil {
					log.Error("Error processing documents", "error", err)
				}
			}
		}
	}()

	// Periodically reclaim documents stuck in PROCESSING so the poll loop
	// redelivers them
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.StaleResetSchedule, func() {
		if err := documentRepo.ResetStaleProcessing(ctx); err != nil {
			log.Error("Failed to reset stale documents", "error", err)
		}
	})
	if err != nil {
		log.Fatal("Invalid stale reset schedule", "schedule", cfg.StaleResetSchedule, "error", err)
	}
	scheduler.Start()

	// Set up HTTP server: places proxy API plus metrics and health
	placesHandler := httpapi.NewPlacesHandler(placesClient, log)
	router := chi.NewRouter()
	router.Mount("/api/v1", placesHandler.Routes())
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Stop()
	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Tripdocs Service stopped")
}
