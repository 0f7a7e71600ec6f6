package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/extract-cart/internal/cart"
	"github.com/nikolayk812/extract-cart/internal/catalog"
	"github.com/nikolayk812/extract-cart/internal/config"
	"github.com/nikolayk812/extract-cart/internal/domain"
	"github.com/nikolayk812/extract-cart/internal/logger"
	"github.com/nikolayk812/extract-cart/internal/metrics"
	"github.com/nikolayk812/extract-cart/internal/port"
	"github.com/nikolayk812/extract-cart/internal/repository"
	"github.com/nikolayk812/extract-cart/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// app owns everything one invocation needs.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	pool     *pgxpool.Pool
	catalog  port.Catalog
	store    *cart.Store
	registry *prometheus.Registry
}

func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cfg.Validate: %w", err)
	}

	log, err := logger.New(logger.Options{
		Service: "cartctl",
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("logger.New: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
	}

	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if cfg.NeedsDatabase() {
		a.pool, err = pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
	}

	a.catalog, err = a.openCatalog()
	if err != nil {
		return nil, fmt.Errorf("openCatalog: %w", err)
	}

	session, err := a.openSession()
	if err != nil {
		return nil, fmt.Errorf("openSession: %w", err)
	}

	unit, err := currency.ParseISO(cfg.App.Currency)
	if err != nil {
		return nil, fmt.Errorf("currency[%s] is not valid: %w", cfg.App.Currency, err)
	}

	a.store, err = cart.New(ctx, session,
		cart.WithLogger(log.Named("cart")),
		cart.WithCurrency(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("cart.New: %w", err)
	}

	cartMetrics, err := metrics.NewCartMetrics(a.registry)
	if err != nil {
		return nil, fmt.Errorf("metrics.NewCartMetrics: %w", err)
	}
	cartMetrics.Observe(a.store.Snapshot())
	a.store.Subscribe(cartMetrics.Observe)

	a.store.Subscribe(func(c domain.Cart) {
		log.Debug("cart changed",
			zap.String("session", cfg.Session.ID),
			zap.Int("lines", len(c.Items)),
			zap.Int("items", c.TotalItems()))
	})

	return a, nil
}

func (a *app) openCatalog() (port.Catalog, error) {
	switch a.cfg.Catalog.Source {
	case config.CatalogPostgres:
		return repository.NewCatalog(a.pool), nil
	default:
		c, err := catalog.LoadFile(a.cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("catalog.LoadFile: %w", err)
		}
		return c, nil
	}
}

func (a *app) openSession() (port.SessionStorage, error) {
	switch a.cfg.Session.Storage {
	case config.StoragePostgres:
		s, err := repository.NewSessionStorage(a.pool, a.cfg.Session.ID)
		if err != nil {
			return nil, fmt.Errorf("repository.NewSessionStorage: %w", err)
		}
		return s, nil
	case config.StorageMemory:
		return storage.NewMemory(), nil
	default:
		s, err := storage.NewFile(a.cfg.Session.Dir, a.cfg.Session.ID)
		if err != nil {
			return nil, fmt.Errorf("storage.NewFile: %w", err)
		}
		return s, nil
	}
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	_ = a.log.Sync()
}
