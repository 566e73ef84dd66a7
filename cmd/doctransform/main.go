package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"doctransform/internal/api"
	"doctransform/internal/api/handlers"
	"doctransform/internal/extract"
	"doctransform/internal/repository"
	"doctransform/internal/service"
	"doctransform/pkg/auth"
	"doctransform/pkg/config"
	"doctransform/pkg/logger"
	"doctransform/pkg/postgres"

	"go.uber.org/zap"
)

// @title DocTransform API
// @version 1.0
// @description Document text extraction and structured AI query service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@doctransform.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting DocTransform service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	docRepo := repository.NewDocumentRepository(db, appLogger)
	chatRepo := repository.NewChatRepository(db, appLogger)
	jobRepo := repository.NewJobRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	queryService := service.NewQueryService(llmService, appLogger)

	extractPool := extract.NewPool(cfg.Upload.Workers, appLogger)

	docService := service.NewDocumentService(docRepo, chatRepo, jobRepo, extractPool, queryService, cfg.Upload.Dir, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	docHandler := handlers.NewDocumentHandler(docService, cfg.Upload.MaxSizeBytes, appLogger)
	chatHandler := handlers.NewChatHandler(docService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, docHandler, chatHandler, jwtManager, cfg.Upload.Dir, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
