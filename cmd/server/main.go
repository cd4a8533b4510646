package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/singulaarityy/Ferrum-Store/internal/accesspolicy"
	"github.com/singulaarityy/Ferrum-Store/internal/auth"
	"github.com/singulaarityy/Ferrum-Store/internal/cache"
	"github.com/singulaarityy/Ferrum-Store/internal/config"
	"github.com/singulaarityy/Ferrum-Store/internal/handler"
	"github.com/singulaarityy/Ferrum-Store/internal/middleware"
	"github.com/singulaarityy/Ferrum-Store/internal/repository/postgres"
	"github.com/singulaarityy/Ferrum-Store/internal/service"
	"github.com/singulaarityy/Ferrum-Store/internal/storage/s3"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token authority for issuing and verifying bearer tokens
	authority, err := auth.NewHS256Authority(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		log.Fatalf("Failed to create token authority: %v", err)
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Redis client backing the listing cache, permission cache and usage
	// counters
	rdb, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	logger.Info("cache connected")

	// Presigner for direct-to-store uploads and downloads
	presigner, err := s3.NewPresigner(ctx, s3.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Fatalf("Failed to create object store presigner: %v", err)
	}

	// Role-visibility policy (built-in default unless a file is given)
	policy := accesspolicy.Default()
	if cfg.AccessPolicyFile != "" {
		policy, err = accesspolicy.LoadFile(cfg.AccessPolicyFile)
		if err != nil {
			log.Fatalf("Failed to load access policy: %v", err)
		}
		logger.Info("access policy loaded", "file", cfg.AccessPolicyFile)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	permRepo := postgres.NewPermissionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Cache layers
	listings := cache.NewListingCache(rdb, logger)
	permCache := cache.NewPermissionCache(rdb, logger)
	usage := cache.NewUsageCounter(rdb, logger)

	// Create services
	resolver := service.NewAccessResolver(userRepo, permRepo, permCache, policy, logger)
	listingService := service.NewListingService(folderRepo, fileRepo, resolver, listings, logger)
	folderService := service.NewFolderService(folderRepo, permRepo, userRepo, txManager, resolver, listings, permCache, logger)
	fileService := service.NewFileService(fileRepo, folderRepo, resolver, listings, usage, presigner, logger)
	userService := service.NewUserService(userRepo, authority, usage, logger)

	// Create handlers
	userHandler := handler.NewUserHandler(userService, logger)
	folderHandler := handler.NewFolderHandler(folderService, listingService, logger)
	fileHandler := handler.NewFileHandler(fileService, logger)
	healthHandler := handler.NewHealthHandler(pool, rdb)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", userHandler.Register)
	mux.HandleFunc("POST /api/auth/login", userHandler.Login)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("POST /api/folders/{id}/share", folderHandler.ShareFolder)

	// File routes
	mux.HandleFunc("POST /api/files/upload", fileHandler.Upload)
	mux.HandleFunc("GET /api/files/{id}/download", fileHandler.Download)

	// User routes
	mux.HandleFunc("GET /api/users/me/usage", userHandler.Usage)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(authority, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
