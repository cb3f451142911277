package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/postgres"
)

type sampleItem struct {
	name, description, sku, category, price string
	quantity                                int
}

var sampleCategories = []dto.CreateCategoryRequest{
	{Name: "Electronics", Description: "Electronic devices and components"},
	{Name: "Office Supplies", Description: "Office and stationery items"},
	{Name: "Tools", Description: "Hardware and tools"},
	{Name: "Furniture", Description: "Office and home furniture"},
	{Name: "Software", Description: "Software licenses and digital products"},
}

var sampleItems = []sampleItem{
	{"Laptop Dell Inspiron 15", "15-inch laptop with Intel i5 processor", "DELL-INS-15", "Electronics", "899.99", 5},
	{"Wireless Mouse", "Logitech wireless optical mouse", "LOG-MOUSE-01", "Electronics", "29.99", 25},
	{"USB-C Hub", "7-in-1 USB-C hub with HDMI", "HUB-USBC-01", "Electronics", "49.99", 15},
	{"Printer Paper A4", "White paper 500 sheets per pack", "PAPER-A4-500", "Office Supplies", "8.99", 100},
	{"Blue Pens Pack", "Pack of 10 blue ballpoint pens", "PEN-BLUE-10", "Office Supplies", "12.99", 50},
	{"Screwdriver Set", "Phillips and flathead screwdriver set", "TOOL-SCREW-01", "Tools", "24.99", 8},
	{"Office Chair", "Ergonomic office chair with lumbar support", "CHAIR-ERG-01", "Furniture", "199.99", 3},
	{"Microsoft Office 365", "Annual subscription license", "MS-OFF-365", "Software", "99.99", 20},
}

// seedSample carga las categorías y artículos de ejemplo si no hay ninguna categoría.
// Cada artículo con stock queda con su movimiento "Initial stock". Devuelve false si ya había datos.
func seedSample(ctx context.Context, categories *inventory.CategoryUseCase, items *inventory.ItemUseCase) (bool, error) {
	existing, err := categories.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	ids := make(map[string]string, len(sampleCategories))
	for _, in := range sampleCategories {
		c, err := categories.Create(ctx, in)
		if err != nil {
			return false, fmt.Errorf("categoría %s: %w", in.Name, err)
		}
		ids[c.Name] = c.ID
	}
	for _, s := range sampleItems {
		_, err := items.Create(ctx, dto.CreateItemRequest{
			Name:        s.name,
			Description: s.description,
			Quantity:    s.quantity,
			Price:       decimal.RequireFromString(s.price),
			SKU:         s.sku,
			CategoryID:  ids[s.category],
		})
		if err != nil {
			return false, fmt.Errorf("artículo %s: %w", s.name, err)
		}
	}
	return true, nil
}

type seedCmd struct {
	reset bool
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "carga datos de ejemplo (5 categorías, 8 artículos)" }
func (*seedCmd) Usage() string {
	return `inventoryctl seed [-reset]

  Crea el esquema si falta y carga los datos de ejemplo solo si no existe ninguna categoría.
  Con -reset vacía antes todas las tablas.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.reset, "reset", false, "vacía las tablas antes de cargar")
}

func (c *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := postgres.EnsureSchema(ctx, a.pool); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.reset {
		if err := postgres.Truncate(ctx, a.pool); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	loaded, err := seedSample(ctx, a.categories, a.items)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !loaded {
		a.log.Info().Msg("ya existen categorías, no se cargan datos de ejemplo")
		return subcommands.ExitSuccess
	}
	a.log.Info().
		Int("categories", len(sampleCategories)).
		Int("items", len(sampleItems)).
		Msg("datos de ejemplo cargados")
	return subcommands.ExitSuccess
}
