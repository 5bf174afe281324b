package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clipnest/internal/auth"
	"clipnest/internal/config"
	"clipnest/internal/domain/repositories"
	"clipnest/internal/domain/services"
	"clipnest/internal/handler"
	"clipnest/internal/imagetype"
	"clipnest/internal/middleware"
	"clipnest/internal/repository/memory"
	"clipnest/internal/repository/postgres"
	"clipnest/internal/service"
	serviceAuth "clipnest/internal/service/auth"
	"clipnest/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"storage_backend", cfg.StorageBackend,
	)

	verifier, err := newTokenVerifier(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	ctx := context.Background()

	// Metadata repositories
	var (
		folderRepo repositories.FolderRepository
		imageRepo  repositories.ImageRepository
		txManager  repositories.TransactionManager
		dbPinger   handler.Pinger
	)

	if cfg.StorageBackend == config.StorageMemory {
		store := memory.NewStore()
		folderRepo = store.FolderRepository()
		imageRepo = store.ImageRepository()
		txManager = store.TransactionManager()
		logger.Warn("using in-memory metadata store; data is lost on restart")
	} else {
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is required unless STORAGE_BACKEND=memory")
		}

		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		logger.Info("database connected",
			"max_conns", 25,
			"min_conns", 5,
		)

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.Migrate(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		folderRepo = postgres.NewFolderRepository(repoConfig)
		imageRepo = postgres.NewImageRepository(repoConfig)
		txManager = postgres.NewTransactionManager(pool, logger)
		dbPinger = pool
	}

	// Object store
	var (
		objects     services.ObjectStore
		uploads     http.Handler
		uploadsPath string
	)

	if cfg.StorageBackend == config.StorageS3 {
		s3Store, err := storage.NewS3Store(cfg.S3, logger)
		if err != nil {
			log.Fatalf("Failed to create S3 store: %v", err)
		}
		objects = s3Store
	} else {
		diskStore, err := storage.NewDiskStore(cfg.UploadDir, cfg.PublicUploadPath, logger)
		if err != nil {
			log.Fatalf("Failed to create upload store: %v", err)
		}
		objects = diskStore
		uploads = diskStore.Handler()
		uploadsPath = diskStore.PublicPath()
	}

	imageTypes, err := imagetype.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load image type registry: %v", err)
	}

	// Services
	authorizer := serviceAuth.NewOwnerBasedAuthorizer(folderRepo, imageRepo)
	folderService := service.NewFolderService(folderRepo, imageRepo, txManager, authorizer, objects, cfg.StorageTimeout, logger)
	imageService := service.NewImageService(imageRepo, folderRepo, txManager, authorizer, objects, imageTypes, cfg.MaxUploadBytes, cfg.StorageTimeout, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, &handler.Handlers{
		Health:      handler.NewHealthHandler(dbPinger, logger),
		Folders:     handler.NewFolderHandler(folderService, logger),
		Images:      handler.NewImageHandler(imageService, cfg.MaxUploadBytes, logger),
		Uploads:     uploads,
		UploadsPath: uploadsPath,
	})

	// Order: CORS → RequestLogger → Recovery → Auth → Routes
	publicPaths := []string{"/health"}
	if uploadsPath != "" {
		publicPaths = append(publicPaths, uploadsPath)
	}

	var h http.Handler = mux
	h = middleware.Auth(verifier, logger, publicPaths...)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info("shutting down")

	drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// newTokenVerifier prefers JWKS when configured, falling back to a shared secret
func newTokenVerifier(cfg *config.Config, logger *slog.Logger) (auth.TokenVerifier, error) {
	if cfg.JWKSURL != "" {
		return auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	}
	return auth.NewHMACVerifier(cfg.JWTSecret, logger)
}
