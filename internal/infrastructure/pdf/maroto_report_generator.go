// Package pdf genera la versión PDF del export de reportes con Maroto v2.
//
// Cada sección del esquema se dibuja como un bloque de tabla propio (A4 apaisado):
//
//	┌──────────────────────────────────────────────┐
//	│  TÍTULO DE SECCIÓN (color de la sección)     │
//	│  Etiqueta | Etiqueta | ...                   │
//	│  valor    | valor    | ...   (un reporte)    │
//	│  total    | total    | ...   (gris)          │
//	└──────────────────────────────────────────────┘
//
// Las secciones anchas se parten en bloques de columnsPerBlock columnas.
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Reportes-api/internal/application/report"
	"github.com/jhoicas/Reportes-api/internal/domain/schema"
)

// ContentType MIME del documento.
const ContentType = "application/pdf"

const (
	gridSize        = 12
	columnsPerBlock = 6
	colSize         = gridSize / columnsPerBlock
)

var (
	colorTotals = &props.Color{Red: 217, Green: 217, Blue: 217}
	colorGray   = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ report.SheetGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa report.SheetGenerator en PDF.
type MarotoReportGenerator struct {
	printer *message.Printer
}

// NewMarotoReportGenerator construye el generador. Los números se agrupan por miles en inglés.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{printer: message.NewPrinter(language.English)}
}

// ContentType MIME del documento.
func (g *MarotoReportGenerator) ContentType() string { return ContentType }

// Extension extensión del archivo.
func (g *MarotoReportGenerator) Extension() string { return "pdf" }

// Generate dibuja la hoja y devuelve los bytes del PDF.
func (g *MarotoReportGenerator) Generate(sh *schema.Sheet) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(sh.Name, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(titleRow(sh))

	for _, sec := range sh.Sections {
		for start := sec.Start; start < sec.Start+sec.Span; start += columnsPerBlock {
			end := min(start+columnsPerBlock, sec.Start+sec.Span)
			m.AddRows(g.block(sh, sec, start, end)...)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func titleRow(sh *schema.Sheet) core.Row {
	return row.New(12).Add(
		col.New(8).Add(text.New(sh.Name, props.Text{Style: fontstyle.Bold, Size: 13, Top: 2})),
		col.New(4).Add(text.New(fmt.Sprintf("%d reporte(s)", len(sh.Rows)), props.Text{
			Size: 8, Align: align.Right, Top: 4, Color: colorGray,
		})),
	)
}

// block filas de una sección para las columnas [start, end).
func (g *MarotoReportGenerator) block(sh *schema.Sheet, sec schema.SheetSection, start, end int) []core.Row {
	fill := hexColor(sec.Color)
	rows := []core.Row{
		row.New(3),
		row.New(7).Add(col.New(gridSize).Add(text.New(sec.Title, props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 1.5, Left: 1,
		}))).WithStyle(&props.Cell{BackgroundColor: fill}),
	}

	labels := make([]core.Col, 0, end-start)
	for j := start; j < end; j++ {
		labels = append(labels, col.New(colSize).Add(text.New(sh.Columns[j].Label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: align.Center, Top: 1,
		})))
	}
	rows = append(rows, row.New(10).Add(labels...).WithStyle(&props.Cell{BackgroundColor: fill}))

	for _, cells := range sh.Rows {
		rows = append(rows, row.New(6).Add(g.cols(cells[start:end], fontstyle.Normal)...))
	}
	rows = append(rows, row.New(6).Add(g.cols(sh.Totals[start:end], fontstyle.Bold)...).
		WithStyle(&props.Cell{BackgroundColor: colorTotals}))
	return rows
}

func (g *MarotoReportGenerator) cols(cells []schema.Cell, style fontstyle.Type) []core.Col {
	out := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		a := align.Left
		value := c.Text
		if c.IsNumber {
			a = align.Right
			value = g.formatNumber(c.Number)
		}
		out = append(out, col.New(colSize).Add(text.New(value, props.Text{
			Style: style, Size: 7, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return out
}

// formatNumber agrupa miles: 1234567 → "1,234,567"; los decimales se muestran con dos cifras.
func (g *MarotoReportGenerator) formatNumber(d decimal.Decimal) string {
	if d.IsInteger() {
		return g.printer.Sprintf("%d", d.IntPart())
	}
	return g.printer.Sprintf("%.2f", d.InexactFloat64())
}

// hexColor convierte "RRGGBB" a props.Color; un valor inválido da blanco.
func hexColor(hex string) *props.Color {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return &props.Color{Red: 255, Green: 255, Blue: 255}
	}
	return &props.Color{Red: int(v >> 16 & 0xFF), Green: int(v >> 8 & 0xFF), Blue: int(v & 0xFF)}
}
