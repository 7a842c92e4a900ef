package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	partyapp "github.com/agribase/backend/internal/application/party"
	syncapp "github.com/agribase/backend/internal/application/sync"
	"github.com/agribase/backend/internal/infrastructure/auth"
	"github.com/agribase/backend/internal/infrastructure/config"
	"github.com/agribase/backend/internal/infrastructure/event"
	"github.com/agribase/backend/internal/infrastructure/logger"
	"github.com/agribase/backend/internal/infrastructure/persistence"
	"github.com/agribase/backend/internal/interfaces/http/handler"
	"github.com/agribase/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownGrace = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting AgriBase backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	engine := buildRouter(cfg, log, db, eventBus)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server exited gracefully")
	return nil
}

// buildRouter wires repositories, services and the legacy mirror onto the
// gin engine
func buildRouter(cfg *config.Config, log *zap.Logger, db *persistence.Database, eventBus *event.InMemoryEventBus) *gin.Engine {
	// Party-model stores and the transaction manager they run under
	stores := persistence.NewStores(db.DB)
	txManager := persistence.NewGormTxManager(db.DB)

	// Legacy table repositories
	farmRepo := persistence.NewGormFarmRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	memberRepo := persistence.NewGormFarmMemberRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	partyService := partyapp.NewService(txManager, stores, eventBus)
	customerService := partyapp.NewCustomerService(partyService, orderRepo)
	userService := partyapp.NewUserService(partyService, userRepo)

	if cfg.Sync.Enabled {
		mirror := syncapp.NewLegacyMirror(stores, farmRepo, userRepo, customerRepo, supplierRepo, log)
		eventBus.Subscribe(mirror)
		log.Info("Legacy mirror subscribed", zap.Strings("events", mirror.EventTypes()))
	} else {
		log.Info("Legacy mirror disabled")
	}

	return router.New(router.Dependencies{
		Config:     cfg,
		Logger:     log,
		JWTService: auth.NewJWTService(cfg.JWT),
		Users:      userRepo,
		Members:    memberRepo,
		System:     handler.NewSystemHandler(db),
		Registrars: []router.RouteRegistrar{
			handler.NewCustomerHandler(customerService),
			handler.NewUserHandler(userService),
		},
	})
}
