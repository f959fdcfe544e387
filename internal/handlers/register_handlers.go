package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/ledger_transfer_engine/cmd/docs"
	portssvc "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/dto"
	"github.com/SscSPs/ledger_transfer_engine/internal/middleware"
	"github.com/SscSPs/ledger_transfer_engine/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if err := dto.RegisterValidators(); err != nil {
		return err
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := setupAPIV1Routes(r, cfg, services); err != nil {
		return err
	}

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	v1 := r.Group("/api/v1", middleware.HTTPMetrics(), middleware.AuthMiddleware(cfg.JWTSecret))

	var transferGuards []gin.HandlerFunc
	if cfg.RateLimit != "" {
		limiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
		}
		transferGuards = append(transferGuards, middleware.RateLimit(limiter))
	}

	RegisterAccountRoutes(v1, services.Account)
	RegisterTransferRoutes(v1, services.Transfer, transferGuards...)
	RegisterLedgerRoutes(v1, services.Ledger)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
