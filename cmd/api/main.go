package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/application/report"
	infrapdf "github.com/jhoicas/inventory-tracker/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventory-tracker/internal/interfaces/http"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema")
	}

	timeout := cfg.DB.QueryTimeout
	categoryRepo := postgres.NewCategoryRepository(pool, timeout)
	itemRepo := postgres.NewItemRepository(pool, timeout)
	movementRepo := postgres.NewStockMovementRepository(pool, timeout)
	reportRepo := postgres.NewReportRepository(pool, timeout)
	txRunner := postgres.NewTxRunner(pool, timeout)

	categoryUC := inventory.NewCategoryUseCase(categoryRepo, log)
	itemUC := inventory.NewItemUseCase(txRunner, itemRepo, log, inventory.ItemOptions{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
	})

	// PDF: informe de valoración de stock
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	reportUC := report.NewReportUseCase(txRunner, itemRepo, movementRepo, reportRepo, pdfGenerator, log, report.Options{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		ItemsPageSize:     cfg.Inventory.ItemsPageSize,
		MovementsPageSize: cfg.Inventory.MovementsPageSize,
		MaxPageSize:       cfg.Inventory.MaxPageSize,
		Currency:          cfg.Inventory.Currency,
	})

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}, log)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Tracker API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC: categoryUC,
		ItemUC:     itemUC,
		ReportUC:   reportUC,
		Log:        log,
		Health: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return pool.Ping(pingCtx)
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
