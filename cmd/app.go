package cmd

import (
	"context"
	"fmt"

	"dog-inventory/core/audit"
	"dog-inventory/core/bus"
	"dog-inventory/core/config"
	"dog-inventory/core/database"
	"dog-inventory/core/dog"
	"dog-inventory/core/expression"
	"dog-inventory/core/logger"
	"dog-inventory/core/reconcile"
	"dog-inventory/core/storage"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	configPath string
	configFile string
)

// app bundles what every command needs: configuration, logger and the
// optional post-run integrations.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	recorder *audit.Recorder
	closers  []func()
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &app{cfg: cfg, logger: l}, nil
}

func (a *app) storageClient() (storage.Client, error) {
	client, err := storage.NewClient(a.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// factStore returns the object-storage fact store.
func (a *app) factStore() (*storage.FactStore, error) {
	client, err := a.storageClient()
	if err != nil {
		return nil, err
	}
	return storage.NewFactStore(client, a.cfg.Storage), nil
}

// database connects the optional run-history database once. A failed
// connection is logged and leaves auditing off.
func (a *app) database() *gorm.DB {
	if a.db != nil || !a.cfg.Database.Enabled {
		return a.db
	}
	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		a.logger.Warn("Optional database connection failed", zap.Error(err))
		return nil
	}
	a.logger.Info("Connected to run-history database", zap.String("driver", a.cfg.Database.Driver))
	a.db = db
	return db
}

// source returns the dog client, reading fact documents from object storage
// when configured.
func (a *app) source() (reconcile.Source, error) {
	var src reconcile.Source = dog.NewClient(a.cfg.Dog)
	if a.cfg.Inventory.FactSource != reconcile.FactSourceStorage {
		return src, nil
	}

	store, err := a.factStore()
	if err != nil {
		return nil, err
	}
	return reconcile.WithFactSource(src, store), nil
}

// runner builds the engine and attaches the audit and bus hooks that are
// enabled. Integrations that fail to connect are skipped with a warning.
func (a *app) runner(ctx context.Context) (*reconcile.Runner, error) {
	src, err := a.source()
	if err != nil {
		return nil, err
	}
	engine := reconcile.NewEngine(src, expression.NewExpr(), a.logger)

	var hooks []reconcile.Hook

	if db := a.database(); db != nil {
		rec := audit.NewRecorder(db, a.logger)
		if err := rec.Migrate(ctx); err != nil {
			a.logger.Warn("Run history unavailable", zap.Error(err))
		} else {
			a.recorder = rec
			hooks = append(hooks, rec.Hook())
		}
	}

	if a.cfg.Bus.URL != "" {
		if b, err := bus.New(a.cfg.Bus.URL, nats.Name("dog-inventory")); err != nil {
			a.logger.Warn("Optional event bus connection failed", zap.Error(err))
		} else if err := b.EnsureStream(a.cfg.Bus.Stream, a.cfg.Bus.Subject); err != nil {
			a.logger.Warn("Event stream unavailable", zap.Error(err))
			b.Close()
		} else {
			a.closers = append(a.closers, b.Close)
			hooks = append(hooks, bus.Hook(b, a.cfg.Bus.Subject))
		}
	}

	return reconcile.NewRunner(engine, a.cfg.Inventory, a.logger, hooks...), nil
}

// run performs a single reconciliation with all hooks.
func (a *app) run(ctx context.Context) (*reconcile.Result, error) {
	r, err := a.runner(ctx)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx)
}

func (a *app) close() {
	for _, c := range a.closers {
		c()
	}
	_ = a.logger.Sync()
}
