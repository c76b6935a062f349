package dto

import (
	"encoding/json"
	"time"
)

// RecordQuery filtros de listado. Start/End: YYYY-MM-DD o RFC3339.
type RecordQuery struct {
	Start  string `query:"start"`
	End    string `query:"end"`
	UserID string `query:"userId"`
	PageRequest
}

// ExportQuery filtros de export. Format: xlsx (por defecto) o pdf.
type ExportQuery struct {
	Start  string `query:"start"`
	End    string `query:"end"`
	UserID string `query:"userId"`
	Format string `query:"format" validate:"omitempty,oneof=xlsx pdf"`
}

// OwnerResponse dueño de un reporte.
type OwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RecordResponse reporte con sus campos normalizados. Los numéricos salen como números JSON exactos.
type RecordResponse struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	SchemaVersion string         `json:"schemaVersion"`
	ReportDay     string         `json:"reportDay"`
	CreatedAt     time.Time      `json:"createdAt"`
	Fields        map[string]any `json:"fields"`
	User          *OwnerResponse `json:"user"`
}

// CreateRecordResponse salida de POST /records.
type CreateRecordResponse struct {
	Record RecordResponse `json:"record"`
}

// RecordListResponse página de reportes.
type RecordListResponse struct {
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Records  []RecordResponse `json:"records"`
}

// CheckTodayResponse estado del envío del día.
type CheckTodayResponse struct {
	Submitted bool   `json:"submitted"`
	ReportDay string `json:"reportDay"`
}

// UserSummaryResponse agregado de un usuario en el rango.
type UserSummaryResponse struct {
	UserID  string                 `json:"userId"`
	User    *OwnerResponse         `json:"user"`
	Records int                    `json:"records"`
	FirstAt time.Time              `json:"firstAt"`
	LastAt  time.Time              `json:"lastAt"`
	Totals  map[string]json.Number `json:"totals"`
}

// SummaryResponse agregado por usuario.
type SummaryResponse struct {
	Users []UserSummaryResponse `json:"users"`
}

// RecordOverview fila del listado de superadmin.
type RecordOverview struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ReportDay string    `json:"reportDay"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserRole  string    `json:"userRole"`
}

// RecordOverviewResponse listado de superadmin.
type RecordOverviewResponse struct {
	Total   int              `json:"total"`
	Records []RecordOverview `json:"records"`
}
