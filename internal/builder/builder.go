package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ragagent/internal/api"
	chatapi "ragagent/internal/api/chat"
	sessionapi "ragagent/internal/api/session"
	"ragagent/internal/config"
	"ragagent/internal/integration/drive"
	"ragagent/internal/integration/llm"
	"ragagent/internal/integration/rag"
	"ragagent/internal/repository"
	"ragagent/internal/usecase/agent"
	"ragagent/internal/usecase/corpus"
	"ragagent/internal/usecase/session"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	sessionRepo := repository.NewSessionPostgres(db)
	messageRepo := repository.NewMessagePostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var driveConnector corpus.DriveConnector
	var ragConnector corpus.RagConnector
	var llmConnector agent.LLMConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		driveConnector = drive.NewMockConnector(logger)
		ragConnector = rag.NewMockConnector(logger, cfg.RAGConnectorCfg.MaxBatchSize)
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		driveConnector = drive.NewConnector(cfg.DriveConnectorCfg, logger)
		ragConnector = rag.NewConnector(cfg.RAGConnectorCfg, logger)
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	// Initialize use cases
	corpusUC := corpus.NewUsecase(
		driveConnector,
		ragConnector,
		cfg.IngestCfg,
		cfg.DriveConnectorCfg.PageSize,
		logger,
	)

	sessionUC := session.NewUsecase(
		sessionRepo,
		messageRepo,
		cfg.SessionCfg,
		logger,
	)

	agentUC := agent.NewUsecase(
		llmConnector,
		corpusUC,
		sessionUC,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(agentUC, sessionUC)
	sessionHandler := sessionapi.NewHandler(sessionUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, sessionHandler, cfg.AllowedOrigins, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
