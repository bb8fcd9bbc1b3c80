package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/sqlscout-io/sqlscout-engine/pkg/auth"
	"github.com/sqlscout-io/sqlscout-engine/pkg/config"
	"github.com/sqlscout-io/sqlscout-engine/pkg/crypto"
	"github.com/sqlscout-io/sqlscout-engine/pkg/database"
	"github.com/sqlscout-io/sqlscout-engine/pkg/handlers"
	"github.com/sqlscout-io/sqlscout-engine/pkg/llm"
	"github.com/sqlscout-io/sqlscout-engine/pkg/logging"
	"github.com/sqlscout-io/sqlscout-engine/pkg/middleware"
	"github.com/sqlscout-io/sqlscout-engine/pkg/prompts"
	"github.com/sqlscout-io/sqlscout-engine/pkg/repositories"
	"github.com/sqlscout-io/sqlscout-engine/pkg/retry"
	"github.com/sqlscout-io/sqlscout-engine/pkg/services"
	"github.com/sqlscout-io/sqlscout-engine/pkg/warehouse"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Host),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model))

	ctx := context.Background()

	// The metadata store may come up after us; retry the initial connect.
	var db *database.DB
	err = retry.Do(ctx, retry.DefaultConfig(), func() error {
		var connErr error
		db, connErr = database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.URL(),
			MaxConnections: cfg.Database.MaxConnections,
		})
		return connErr
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}

	encryptor, err := crypto.NewCredentialEncryptor(cfg.CredentialsKey)
	if err != nil {
		logger.Fatal("Failed to initialize credential encryptor", zap.Error(err))
	}

	llmClient, err := llm.NewFromProvider(cfg.LLM.Provider, &llm.Config{
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	gateways := warehouse.NewBigQueryFactory(logger)

	connectionRepo := repositories.NewConnectionRepository(db)
	schemaRepo := repositories.NewSchemaRepository(db)

	connectionService := services.NewConnectionService(connectionRepo, encryptor, gateways, logger)
	schemaService := services.NewSchemaService(schemaRepo, connectionService, gateways, logger)
	generator := services.NewSQLGenerator(llmClient, cfg.LLM.Temperature, logger)
	assembler := prompts.NewAssembler(cfg.Pipeline.PromptBudgetBytes)
	pipeline := services.NewPipelineService(
		connectionService, schemaService, assembler, generator, gateways,
		cfg.LLM.Timeout(), cfg.Pipeline.DryRunTimeout(), logger)

	authMiddleware := auth.NewMiddleware(cfg.Auth.JWTSecret, cfg.Auth.EnableVerification, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewConnectionsHandler(connectionService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSchemaHandler(schemaService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewQueriesHandler(pipeline, logger).RegisterRoutes(mux, authMiddleware)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting sqlscout-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// runMigrations opens a short-lived database/sql connection for the migrate
// driver; the pgx pool is not usable there.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	return database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger)
}
