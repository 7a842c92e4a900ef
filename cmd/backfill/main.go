package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	partyapp "github.com/agribase/backend/internal/application/party"
	syncapp "github.com/agribase/backend/internal/application/sync"
	"github.com/agribase/backend/internal/infrastructure/config"
	"github.com/agribase/backend/internal/infrastructure/event"
	"github.com/agribase/backend/internal/infrastructure/logger"
	"github.com/agribase/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// The backfill converts pre-existing denormalized rows into party-model
// records. Every stage is idempotent, so an interrupted run can simply be
// restarted.
func main() {
	var (
		batchSize int
		timeout   time.Duration
	)
	flag.IntVar(&batchSize, "batch-size", 0, "Rows per batch (default: from config)")
	flag.DurationVar(&timeout, "timeout", 0, "Abort the run after this duration (default: none)")
	flag.Parse()

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

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	stores := persistence.NewStores(db.DB)
	txManager := persistence.NewGormTxManager(db.DB)

	farmRepo := persistence.NewGormFarmRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	memberRepo := persistence.NewGormFarmMemberRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// The legacy rows already exist, so the mirror stays unsubscribed here;
	// the bus only satisfies the party service's publisher dependency.
	eventBus := event.NewInMemoryEventBus(log)
	partyService := partyapp.NewService(txManager, stores, eventBus)

	migrator := syncapp.NewBackfillMigrator(
		partyService, farmRepo, userRepo, memberRepo, customerRepo, supplierRepo, orderRepo, log,
	)
	if batchSize <= 0 {
		batchSize = cfg.Sync.BackfillBatchSize
	}
	migrator.SetBatchSize(batchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Warn("Interrupt received, stopping after the current stage")
		cancel()
	}()

	start := time.Now()
	result, err := migrator.Run(ctx)
	if err != nil {
		log.Fatal("Backfill aborted",
			zap.Error(err),
			zap.Int("farms_migrated", result.FarmsMigrated),
			zap.Int("users_migrated", result.UsersMigrated),
			zap.Int("customers_migrated", result.CustomersMigrated),
			zap.Int("suppliers_migrated", result.SuppliersMigrated),
			zap.Int("orders_linked", result.OrdersLinked),
		)
	}

	log.Info("Backfill finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("farms_migrated", result.FarmsMigrated),
		zap.Int("users_migrated", result.UsersMigrated),
		zap.Int("employee_roles", result.EmployeeRoles),
		zap.Int("customers_migrated", result.CustomersMigrated),
		zap.Int("suppliers_migrated", result.SuppliersMigrated),
		zap.Int("orders_linked", result.OrdersLinked),
		zap.Int("orders_orphaned", len(result.OrphanedOrderIDs)),
	)
}
