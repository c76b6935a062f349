package schema

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reportes-api/internal/domain/entity"
)

// TotalLabel texto de la celda createdAt en la fila de totales.
const TotalLabel = "Total"

// SheetName nombre de la hoja exportada.
const SheetName = "Records"

// Cell celda de la hoja: numérica o de texto.
type Cell struct {
	Text     string
	Number   decimal.Decimal
	IsNumber bool
}

func textCell(s string) Cell            { return Cell{Text: s} }
func numberCell(d decimal.Decimal) Cell { return Cell{Number: d, IsNumber: true} }

// String representación textual de la celda.
func (c Cell) String() string {
	if c.IsNumber {
		return c.Number.String()
	}
	return c.Text
}

// SheetSection bloque de cabecera: columnas [Start, Start+Span) en base 0.
type SheetSection struct {
	Title string
	Color string
	Start int
	Span  int
}

// Column columna de la hoja.
type Column struct {
	Field string
	Label string
	Color string
	Kind  Kind
}

// Sheet documento tabular independiente del formato de salida.
type Sheet struct {
	Name     string
	Sections []SheetSection
	Columns  []Column
	Rows     [][]Cell
	Totals   []Cell
}

// Labels etiquetas de columna en orden.
func (s *Sheet) Labels() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Label
	}
	return out
}

// ColumnIndex posición de la columna del campo, o -1.
func (s *Sheet) ColumnIndex(field string) int {
	for i, c := range s.Columns {
		if c.Field == field {
			return i
		}
	}
	return -1
}

// BuildSheet arma la hoja de export: cabecera por sección, etiquetas, una fila por reporte y totales.
// Los totales se acumulan en el mismo recorrido que genera las filas.
func BuildSheet(s *Schema, records []entity.OwnedRecord, loc *time.Location, layout string) *Sheet {
	if loc == nil {
		loc = time.UTC
	}
	sh := &Sheet{Name: SheetName}
	for _, sec := range s.Sections {
		sh.Sections = append(sh.Sections, SheetSection{
			Title: sec.Title, Color: sec.Color, Start: len(sh.Columns), Span: len(sec.Fields),
		})
		for _, name := range sec.Fields {
			kind := Text
			if f, ok := s.Field(name); ok {
				kind = f.Kind
			}
			sh.Columns = append(sh.Columns, Column{Field: name, Label: s.Label(name), Color: sec.Color, Kind: kind})
		}
	}

	sums := make([]decimal.Decimal, len(sh.Columns))
	sh.Rows = make([][]Cell, 0, len(records))
	for i := range records {
		r := &records[i]
		row := make([]Cell, len(sh.Columns))
		for j, col := range sh.Columns {
			switch col.Field {
			case PseudoUserName:
				if r.Owner != nil {
					row[j] = textCell(r.Owner.Name)
				}
			case PseudoUserEmail:
				if r.Owner != nil {
					row[j] = textCell(r.Owner.Email)
				}
			case PseudoCreatedAt:
				if !r.CreatedAt.IsZero() {
					row[j] = textCell(r.CreatedAt.In(loc).Format(layout))
				}
			default:
				if col.Kind == Number {
					v := r.Number(col.Field)
					sums[j] = sums[j].Add(v)
					row[j] = numberCell(v)
				} else {
					row[j] = textCell(r.Text(col.Field))
				}
			}
		}
		sh.Rows = append(sh.Rows, row)
	}

	sh.Totals = make([]Cell, len(sh.Columns))
	for j, col := range sh.Columns {
		switch {
		case col.Field == PseudoCreatedAt:
			sh.Totals[j] = textCell(TotalLabel)
		case col.Kind == Number:
			sh.Totals[j] = numberCell(sums[j])
		}
	}
	return sh
}
