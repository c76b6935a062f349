package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reportes-api/internal/domain/entity"
)

// RecordFilter conjunto visible y rango de fechas (ambos extremos inclusivos).
// UserIDs vacío con AllUsers=false no coincide con nada.
type RecordFilter struct {
	UserIDs  []string
	AllUsers bool
	From     *time.Time
	To       *time.Time
}

// UserTotals agregado por usuario dentro de un filtro.
type UserTotals struct {
	Owner      entity.Owner
	OwnerFound bool
	Records    int
	FirstAt    time.Time
	LastAt     time.Time
	Totals     map[string]decimal.Decimal
}

// RecordRepository define el puerto de persistencia para Record.
type RecordRepository interface {
	// Create falla con domain.ErrAlreadySubmittedToday si el usuario ya tiene reporte ese día.
	Create(ctx context.Context, rec *entity.Record) error
	// ExistsForUserBetween indica si hay reportes del usuario con created_at en [from, to).
	ExistsForUserBetween(ctx context.Context, userID string, from, to time.Time) (bool, error)
	Count(ctx context.Context, f RecordFilter) (int, error)
	// List ordenado por created_at DESC, id DESC.
	List(ctx context.Context, f RecordFilter, limit, offset int) ([]entity.OwnedRecord, error)
	ListAll(ctx context.Context, f RecordFilter) ([]entity.OwnedRecord, error)
	SummaryByUser(ctx context.Context, f RecordFilter) ([]UserTotals, error)
	GetByID(ctx context.Context, id string) (*entity.Record, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
