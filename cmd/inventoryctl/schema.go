package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jhoicas/inventory-tracker/internal/infrastructure/postgres"
)

type schemaCmd struct {
	print bool
}

func (*schemaCmd) Name() string     { return "schema" }
func (*schemaCmd) Synopsis() string { return "crea las tablas e índices si no existen" }
func (*schemaCmd) Usage() string {
	return `inventoryctl schema [-print]

  Aplica el DDL de categories, items y stock_movements. Es idempotente.
  Con -print solo muestra el DDL sin conectarse a la base de datos.
`
}

func (c *schemaCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.print, "print", false, "muestra el DDL y termina")
}

func (c *schemaCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.print {
		fmt.Print(postgres.Schema())
		return subcommands.ExitSuccess
	}
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
	a.log.Info().Msg("esquema aplicado")
	return subcommands.ExitSuccess
}
