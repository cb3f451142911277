package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type reportCmd struct {
	out string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "genera el informe de stock en PDF" }
func (*reportCmd) Usage() string {
	return `inventoryctl report [-o <archivo.pdf>]

  Escribe el informe de valoración de stock. Sin -o usa el nombre stock-AAAAMMDD.pdf.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "archivo de salida")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	pdf, filename, err := a.reports.StockReportPDF(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.out != "" {
		filename = c.out
	}
	if err := os.WriteFile(filename, pdf, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "escribir %s: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	a.log.Info().Str("file", filename).Int("bytes", len(pdf)).Msg("informe generado")
	return subcommands.ExitSuccess
}
