// Package pdf implementa el informe de valoración de stock en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + nombre de la app  │  Fecha de generación  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: artículos / categorías / stock bajo / agotados     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Artículo | Categoría | Cant | Precio | Total    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Valor del inventario                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	"github.com/Rhymond/go-money"
	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/application/report"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 190, Green: 110, Blue: 0}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorStripe  = &props.Color{Red: 235, Green: 241, Blue: 247}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.StockReportGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.StockReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appName string
}

// NewMarotoPDFGenerator construye el generador. appName aparece como autor y en la cabecera.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{appName: appName}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStockReport(_ context.Context, r report.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Title, true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r, g.appName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(r)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r report.StockReport, appName string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(appName, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.GeneratedAt.Format("02/01/2006 15:04 MST"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func summaryRow(r report.StockReport) core.Row {
	cell := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Color: color, Top: 5, Align: align.Center}),
		)
	}
	return row.New(14).Add(
		cell("ARTÍCULOS", fmt.Sprint(r.Stats.TotalItems), colorPrimary),
		cell("CATEGORÍAS", fmt.Sprint(r.Stats.TotalCategories), colorPrimary),
		cell(fmt.Sprintf("STOCK BAJO (< %d)", r.Threshold), fmt.Sprint(r.Stats.LowStockCount), colorWarn),
		cell("AGOTADOS", fmt.Sprint(r.Stats.OutOfStockCount), colorDanger),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Artículo", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Precio", 1, align.Right),
		h("Total", 2, align.Right),
		h("Estado", 1, align.Center),
	)
}

func tableDetailRows(r report.StockReport) []core.Row {
	result := make([]core.Row, 0, len(r.Items))
	for i, it := range r.Items {
		status, statusColor := stockStatus(it, r.Threshold)
		cell := props.Text{Size: 8, Top: 1, Left: 1, Right: 1}
		right := cell
		right.Align = align.Right

		rw := row.New(6).Add(
			col.New(2).Add(text.New(nonEmpty(it.SKUValue(), "-"), cell)),
			col.New(3).Add(text.New(it.Name, cell)),
			col.New(2).Add(text.New(it.CategoryName, cell)),
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), right)),
			col.New(1).Add(text.New(displayMoney(it.Price, r.Currency), right)),
			col.New(2).Add(text.New(displayMoney(it.TotalValue(), r.Currency), right)),
			col.New(1).Add(text.New(status, props.Text{
				Size: 7, Top: 1, Align: align.Center, Style: fontstyle.Bold, Color: statusColor,
			})),
		)
		if i%2 == 1 {
			rw.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, rw)
	}
	if len(result) == 0 {
		result = append(result, row.New(10).Add(col.New(12).Add(
			text.New("Sin artículos en inventario", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	return result
}

func totalsRow(r report.StockReport) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("VALOR DEL INVENTARIO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(displayMoney(r.Stats.TotalValue, r.Currency), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func stockStatus(it *entity.Item, threshold int) (string, *props.Color) {
	switch {
	case it.IsOutOfStock():
		return "AGOTADO", colorDanger
	case it.IsLowStock(threshold):
		return "BAJO", colorWarn
	default:
		return "OK", colorGray
	}
}

// displayMoney formatea un importe con el símbolo y separadores de la moneda (go-money).
// Un código de moneda desconocido se muestra como decimal con dos cifras y el código.
func displayMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), cur.Code).Display()
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
