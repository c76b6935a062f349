package dto

import "math"

// ErrorResponse cuerpo de error HTTP. Field identifica el campo que invalidó un reporte.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// MessageResponse confirmación simple.
type MessageResponse struct {
	Message string `json:"message"`
}

// Paginación de reportes.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// PageRequest paginación 1-based para listados.
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"pageSize"`
}

// Normalize aplica los límites: page < 1 -> 1, pageSize < 1 -> 50, pageSize > 500 -> 500.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset filas a saltar para la página actual. Satura en math.MaxInt en lugar de
// desbordar, así una página enorme queda siempre más allá del total.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}
