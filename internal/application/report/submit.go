package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
	"github.com/jhoicas/Reportes-api/internal/domain/schema"
	"github.com/jhoicas/Reportes-api/pkg/logger"
	"github.com/jhoicas/Reportes-api/pkg/timeutil"
)

// SubmitUseCase alta del reporte diario: valida contra el esquema activo y aplica la guardia de un envío por día.
type SubmitUseCase struct {
	records repository.RecordRepository
	schema  *schema.Schema
	cal     *timeutil.Calendar
	metrics Metrics
	log     *logger.Logger
}

// NewSubmitUseCase construye el caso de uso.
func NewSubmitUseCase(records repository.RecordRepository, s *schema.Schema, cal *timeutil.Calendar, metrics Metrics, log *logger.Logger) *SubmitUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &SubmitUseCase{records: records, schema: s, cal: cal, metrics: metrics, log: log.Component("report.submit")}
}

// Submit crea el reporte del día. userId y createdAt los asigna el servidor.
func (uc *SubmitUseCase) Submit(ctx context.Context, id entity.Identity, raw map[string]any) (*dto.RecordResponse, error) {
	vals, err := uc.schema.Normalize(raw)
	if err != nil {
		uc.rejected(err)
		return nil, err
	}

	now := uc.cal.Now()
	start, end := uc.cal.DayBounds(now)
	exists, err := uc.records.ExistsForUserBetween(ctx, id.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("verificar envío del día: %w", err)
	}
	if exists {
		uc.rejected(domain.ErrAlreadySubmittedToday)
		return nil, domain.ErrAlreadySubmittedToday
	}

	rec := &entity.Record{
		ID:            uuid.New().String(),
		UserID:        id.UserID,
		SchemaVersion: uc.schema.Version,
		Numbers:       vals.Numbers,
		Texts:         vals.Texts,
		CreatedAt:     now,
		ReportDay:     uc.cal.DayKey(now),
	}
	if err := uc.records.Create(ctx, rec); err != nil {
		uc.rejected(err)
		return nil, err
	}

	uc.metrics.RecordSubmitted(rec.SchemaVersion)
	uc.log.Info().
		Str("record_id", rec.ID).
		Str("user_id", rec.UserID).
		Str("report_day", rec.ReportDay).
		Msg("reporte registrado")

	resp := toRecordResponse(rec, &entity.Owner{ID: id.UserID, Name: id.Name, Email: id.Email, Role: id.Role})
	return &resp, nil
}

// CheckToday indica si la identidad ya envió el reporte del día en curso.
func (uc *SubmitUseCase) CheckToday(ctx context.Context, id entity.Identity) (*dto.CheckTodayResponse, error) {
	now := uc.cal.Now()
	start, end := uc.cal.DayBounds(now)
	exists, err := uc.records.ExistsForUserBetween(ctx, id.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("verificar envío del día: %w", err)
	}
	return &dto.CheckTodayResponse{Submitted: exists, ReportDay: uc.cal.DayKey(now)}, nil
}

func (uc *SubmitUseCase) rejected(err error) {
	switch {
	case errors.Is(err, domain.ErrMissingField):
		uc.metrics.SubmissionRejected("missing_field")
	case errors.Is(err, domain.ErrInvalidField):
		uc.metrics.SubmissionRejected("invalid_field")
	case errors.Is(err, domain.ErrAlreadySubmittedToday):
		uc.metrics.SubmissionRejected("already_submitted")
	}
}
