package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/application/report"
	infrapdf "github.com/jhoicas/inventory-tracker/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// app dependencias compartidas por los comandos.
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	pool       *pgxpool.Pool
	categories *inventory.CategoryUseCase
	items      *inventory.ItemUseCase
	reports    *report.ReportUseCase
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("inventoryctl")

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	timeout := cfg.DB.QueryTimeout
	itemRepo := postgres.NewItemRepository(pool, timeout)
	txRunner := postgres.NewTxRunner(pool, timeout)
	a := &app{
		cfg:        cfg,
		log:        log,
		pool:       pool,
		categories: inventory.NewCategoryUseCase(postgres.NewCategoryRepository(pool, timeout), log),
		items: inventory.NewItemUseCase(txRunner, itemRepo, log, inventory.ItemOptions{
			LowStockThreshold: cfg.Inventory.LowStockThreshold,
		}),
		reports: report.NewReportUseCase(
			txRunner,
			itemRepo,
			postgres.NewStockMovementRepository(pool, timeout),
			postgres.NewReportRepository(pool, timeout),
			infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
			log,
			report.Options{
				LowStockThreshold: cfg.Inventory.LowStockThreshold,
				Currency:          cfg.Inventory.Currency,
			},
		),
	}
	return a, nil
}

func (a *app) Close() { a.pool.Close() }
