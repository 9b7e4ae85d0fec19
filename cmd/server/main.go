package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/api"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/dispatcher"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/engine"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/participant"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/service"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/config"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/infrastructure/persistence/repository"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/infrastructure/persistence/sqlite"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/notify"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/pkg/database"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/pkg/utils"
)

func main() {
	// Optional .env for local development
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting document workflow service",
		zap.Int("port", cfg.Server.Port),
		zap.String("workflow_mode", cfg.Workflow.Mode))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Transaction manager and repositories
	txManager := sqlite.NewDB(db.DB, logger)
	documentRepo := repository.NewDocumentRepository(db.DB, logger)
	versionRepo := repository.NewVersionRepository(db.DB, logger)
	voteLogRepo := repository.NewVoteLogRepository(db.DB, logger)
	groupRepo := repository.NewGroupRepository(db.DB)
	mandatoryRepo := repository.NewMandatoryParticipantRepository(db.DB)

	// Event dispatcher with notification delivery
	events := dispatcher.New(logger)
	defer events.Close()

	notifier := notify.NewLogNotifier(logger)
	notify.NewListener(versionRepo, notifier).Register(events)

	// Workflow engine and services
	workflowEngine := engine.New(versionRepo, voteLogRepo, txManager, logger,
		engine.WithDispatcher(events))

	resolver := participant.NewResolver(
		cfg.WorkflowMode(),
		cfg.Workflow.AllowReviewerOnly,
		mandatoryRepo,
		groupRepo,
	)
	documentService := service.NewDocumentService(
		documentRepo, versionRepo, voteLogRepo, resolver, txManager, logger)

	// HTTP server
	handlers := api.NewHandlers(
		workflowEngine,
		documentService,
		versionRepo,
		voteLogRepo,
		cfg.Workflow.RevisionOneVoteReject,
		cfg.Workflow.VoteLogLimit,
		logger,
	)
	server := api.NewServer(api.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
