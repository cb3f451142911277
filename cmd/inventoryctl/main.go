// inventoryctl herramientas de administración del inventario: crear el esquema, cargar datos
// de ejemplo, ver estadísticas y exportar el informe de stock en PDF.
//
// Uso: go run ./cmd/inventoryctl <comando> [flags]
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&schemaCmd{}, "base de datos")
	commander.Register(&seedCmd{}, "base de datos")
	commander.Register(&statsCmd{}, "informes")
	commander.Register(&reportCmd{}, "informes")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
