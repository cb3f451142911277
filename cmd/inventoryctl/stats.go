package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
)

type statsCmd struct {
	json bool
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "muestra las estadísticas del inventario" }
func (*statsCmd) Usage() string {
	return `inventoryctl stats [-json]

  Total de artículos, categorías, valor del stock y conteos de stock bajo y agotado.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "salida en JSON")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	stats, err := a.reports.Stats(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := printStats(os.Stdout, stats, a.cfg.Inventory.Currency, c.json); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printStats(w io.Writer, s *dto.StatsResponse, currency string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	_, err := fmt.Fprintf(w,
		"Artículos:    %d\nCategorías:   %d\nValor total:  %s %s\nStock bajo:   %d\nAgotados:     %d\n",
		s.TotalItems, s.TotalCategories, s.TotalValue.StringFixed(2), currency, s.LowStockCount, s.OutOfStockCount,
	)
	return err
}
