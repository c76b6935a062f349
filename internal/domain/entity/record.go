package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record reporte diario de un usuario. Inmutable tras su creación.
// Numbers y Texts contienen solo campos del esquema con que se validó.
type Record struct {
	ID            string
	UserID        string
	SchemaVersion string
	Numbers       map[string]decimal.Decimal
	Texts         map[string]string
	CreatedAt     time.Time
	ReportDay     string // YYYY-MM-DD en la zona de referencia
}

// Number valor numérico del campo; 0 si no se informó.
func (r *Record) Number(field string) decimal.Decimal {
	if v, ok := r.Numbers[field]; ok {
		return v
	}
	return decimal.Zero
}

// Text valor de texto del campo; "" si no se informó.
func (r *Record) Text(field string) string {
	return r.Texts[field]
}

// Owner datos del dueño de un reporte, tal como se muestran en listados y exports.
type Owner struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// OwnedRecord reporte junto a su dueño. Owner es nil si el usuario fue borrado.
type OwnedRecord struct {
	Record
	Owner *Owner
}
