package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/handler"
	"folio/internal/middleware"
	"folio/internal/repository"
	serviceAuth "folio/internal/service/auth"
	serviceDocsys "folio/internal/service/docsystem"
	"folio/internal/service/docsystem/converter"
	"folio/internal/service/upload"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Optional log file alongside stdout
	var logFile *os.File
	if cfg.LogDir != "" {
		logFile, err = config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
	}

	logger := config.NewLogger(cfg, os.Stdout, logFile)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage_driver", cfg.StorageDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwtVerifier, err := auth.NewVerifier(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	stores, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer stores.Close()

	// Services
	validator := serviceDocsys.NewResourceValidator(stores.Folders)
	folderService := serviceDocsys.NewFolderService(stores.Folders, stores.Tx, validator, cfg.RootFolderName, logger)
	docService := serviceDocsys.NewDocumentService(stores.Documents, folderService, stores.Tx, validator, serviceAuth.NewOwnerBasedAuthorizer(), logger)
	listingService := serviceDocsys.NewListingService(stores.Folders, stores.Documents, stores.Listing, logger)
	importService := serviceDocsys.NewImportService(folderService, docService, validator, converter.NewRegistry(), logger)
	uploader := upload.NewLocalImageUploader(cfg.UploadDir, cfg.UploadURLPrefix, logger)

	// Create the root up front so the first document write does not race for it
	if root, err := folderService.EnsureRoot(ctx); err != nil {
		log.Fatalf("Failed to ensure root folder: %v", err)
	} else {
		logger.Info("root folder ready", "id", root.ID, "name", root.Name)
	}

	mux := handler.NewRouter(&handler.Handlers{
		Folders:         handler.NewFolderHandler(folderService, listingService, logger),
		Documents:       handler.NewDocumentHandler(docService, listingService, logger),
		Uploads:         handler.NewUploadHandler(uploader, logger),
		Imports:         handler.NewImportHandler(importService, logger),
		UploadDir:       cfg.UploadDir,
		UploadURLPrefix: cfg.UploadURLPrefix,
	})

	logger.Info("services initialized")

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → RateLimit → Routes
	if cfg.RateLimitRequests > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
		defer limiter.Close()
		h = middleware.RateLimit(limiter, logger)(h)
	}
	h = middleware.AuthMiddleware(jwtVerifier, handler.PublicRoutes(), logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
