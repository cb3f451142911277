package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/application/report"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *inventory.CategoryUseCase
	ItemUC     *inventory.ItemUseCase
	ReportUC   *report.ReportUseCase
	Log        *logger.Logger
	Health     func(ctx context.Context) error // nil = siempre ok
}

// AppConfig parámetros del servidor fiber.
type AppConfig struct {
	Name        string
	CORSOrigins string
}

// NewApp crea la app fiber con los middlewares comunes (recover, cors, request id, log de peticiones).
// Las rutas se registran aparte con Router.
func NewApp(cfg AppConfig, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log.Named("http")))

	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{AllowOrigins: origins}))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, log)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.ReportUC, log)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Post("/:id/movements", itemHandler.RegisterMovement)

	reportHandler := NewReportHandler(deps.ReportUC, log)
	api.Get("/stock_movements", reportHandler.ListMovements)
	api.Get("/low_stock", reportHandler.LowStock)
	api.Get("/stats", reportHandler.Stats)
	api.Get("/dashboard", reportHandler.Dashboard)
	api.Get("/reports/stock.pdf", reportHandler.StockReportPDF)
}
