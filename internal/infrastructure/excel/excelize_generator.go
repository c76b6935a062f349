// Package excel genera el libro xlsx del export de reportes con excelize.
//
// Layout de la hoja:
//
//	fila 1: una celda combinada por sección, con el color de la sección
//	fila 2: etiquetas de columna (negrita, centradas, con borde)
//	filas 3..n: un reporte por fila
//	fila n+1: totales en gris
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Reportes-api/internal/application/report"
	"github.com/jhoicas/Reportes-api/internal/domain/schema"
)

// ContentType MIME del libro xlsx.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	totalsColor   = "D9D9D9"
	columnWidth   = 12
	sectionHeight = 35
	labelHeight   = 65
	dataHeight    = 25
)

var _ report.SheetGenerator = (*ExcelizeGenerator)(nil)

// ExcelizeGenerator implementa report.SheetGenerator en formato xlsx.
type ExcelizeGenerator struct{}

// NewExcelizeGenerator construye el generador.
func NewExcelizeGenerator() *ExcelizeGenerator { return &ExcelizeGenerator{} }

// ContentType MIME del documento.
func (g *ExcelizeGenerator) ContentType() string { return ContentType }

// Extension extensión del archivo.
func (g *ExcelizeGenerator) Extension() string { return "xlsx" }

// Generate escribe la hoja y devuelve los bytes del libro.
func (g *ExcelizeGenerator) Generate(sh *schema.Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sh.Name
	if name == "" {
		name = schema.SheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("excel: nombre de hoja: %w", err)
	}
	w := &writer{f: f, sheet: name, styles: map[string]int{}}

	if err := w.sections(sh); err != nil {
		return nil, err
	}
	if err := w.labels(sh); err != nil {
		return nil, err
	}
	for i, cells := range sh.Rows {
		if err := w.row(i+3, cells, dataHeight, "data"); err != nil {
			return nil, err
		}
	}
	if err := w.row(len(sh.Rows)+3, sh.Totals, 0, "totals"); err != nil {
		return nil, err
	}
	if n := len(sh.Columns); n > 0 {
		last, _ := excelize.ColumnNumberToName(n)
		if err := f.SetColWidth(name, "A", last, columnWidth); err != nil {
			return nil, fmt.Errorf("excel: ancho de columnas: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	f      *excelize.File
	sheet  string
	styles map[string]int
}

func (w *writer) sections(sh *schema.Sheet) error {
	for _, sec := range sh.Sections {
		if sec.Span == 0 {
			continue
		}
		from := cell(sec.Start+1, 1)
		to := cell(sec.Start+sec.Span, 1)
		if err := w.f.SetCellValue(w.sheet, from, sec.Title); err != nil {
			return fmt.Errorf("excel: sección %q: %w", sec.Title, err)
		}
		if sec.Span > 1 {
			if err := w.f.MergeCell(w.sheet, from, to); err != nil {
				return fmt.Errorf("excel: combinar sección %q: %w", sec.Title, err)
			}
		}
		style, err := w.style("header", sec.Color)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(w.sheet, from, to, style); err != nil {
			return fmt.Errorf("excel: estilo de sección: %w", err)
		}
	}
	return w.f.SetRowHeight(w.sheet, 1, sectionHeight)
}

func (w *writer) labels(sh *schema.Sheet) error {
	for i, col := range sh.Columns {
		axis := cell(i+1, 2)
		if err := w.f.SetCellValue(w.sheet, axis, col.Label); err != nil {
			return fmt.Errorf("excel: etiqueta %q: %w", col.Label, err)
		}
		style, err := w.style("header", col.Color)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(w.sheet, axis, axis, style); err != nil {
			return fmt.Errorf("excel: estilo de etiqueta: %w", err)
		}
	}
	return w.f.SetRowHeight(w.sheet, 2, labelHeight)
}

func (w *writer) row(n int, cells []schema.Cell, height float64, kind string) error {
	for i, c := range cells {
		axis := cell(i+1, n)
		var err error
		if c.IsNumber {
			err = w.f.SetCellFloat(w.sheet, axis, c.Number.InexactFloat64(), -1, 64)
		} else if c.Text != "" {
			err = w.f.SetCellStr(w.sheet, axis, c.Text)
		}
		if err != nil {
			return fmt.Errorf("excel: celda %s: %w", axis, err)
		}
	}
	if len(cells) > 0 {
		style, err := w.style(kind, "")
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(w.sheet, cell(1, n), cell(len(cells), n), style); err != nil {
			return fmt.Errorf("excel: estilo de fila %d: %w", n, err)
		}
	}
	if height > 0 {
		return w.f.SetRowHeight(w.sheet, n, height)
	}
	return nil
}

// style cachea un estilo por tipo de fila y color.
func (w *writer) style(kind, color string) (int, error) {
	key := kind + ":" + color
	if id, ok := w.styles[key]; ok {
		return id, nil
	}
	st := &excelize.Style{Border: thinBorder()}
	switch kind {
	case "header":
		st.Font = &excelize.Font{Bold: true}
		st.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
		if color != "" {
			st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
		}
	case "totals":
		st.Font = &excelize.Font{Bold: true}
		st.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{totalsColor}}
	default:
		st.Alignment = &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true}
	}
	id, err := w.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("excel: crear estilo %s: %w", key, err)
	}
	w.styles[key] = id
	return id, nil
}

func thinBorder() []excelize.Border {
	out := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "top", "right", "bottom"} {
		out = append(out, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return out
}

// cell nombre A1 para columna y fila en base 1.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
