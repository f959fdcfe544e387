package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/ledger_transfer_engine/internal/adapters/messaging/kafka"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/ports/publishers"
	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_transfer_engine/internal/core/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/handlers"
	"github.com/SscSPs/ledger_transfer_engine/internal/middleware"
	"github.com/SscSPs/ledger_transfer_engine/internal/platform/config"
	"github.com/SscSPs/ledger_transfer_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_transfer_engine/internal/repositories/memory"
	"github.com/SscSPs/ledger_transfer_engine/pkg/database"
	"github.com/gin-gonic/gin"
)

// @title Ledger Transfer Engine API
// @version 1.0
// @description Account provisioning, atomic fund transfers and ledger queries.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialise storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	publisher := setupPublisher(cfg, logger)
	if publisher != nil {
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("Failed to close event publisher", slog.String("error", err.Error()))
			}
		}()
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, publisher)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage_driver", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// setupRepositories builds the repository ports for the configured storage driver.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memory.NewStore(cfg.LockTimeout)
		now := time.Now().UTC()
		for _, ownerID := range cfg.SeedOwners {
			store.RegisterOwner(domain.Owner{OwnerID: ownerID, CreatedAt: now})
		}
		logger.Warn("Using in-memory storage; state is lost on restart", slog.Int("seeded_owners", len(cfg.SeedOwners)))
		return memory.NewRepositoryProvider(store), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool, cfg.LockTimeout), func() { database.ClosePgxPool(dbPool) }, nil
}

// setupPublisher returns nil when no brokers are configured.
func setupPublisher(cfg *config.Config, logger *slog.Logger) publishers.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set; transfer events are not published")
		return nil
	}
	logger.Info("Publishing transfer events", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaTopic))
	return kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}
