package report

import (
	"context"
	"fmt"

	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
	"github.com/jhoicas/Reportes-api/pkg/logger"
)

// DeleteUseCase baja de reportes: el admin del dueño o el superadmin.
type DeleteUseCase struct {
	records repository.RecordRepository
	users   repository.UserRepository
	log     *logger.Logger
}

// NewDeleteUseCase construye el caso de uso.
func NewDeleteUseCase(records repository.RecordRepository, users repository.UserRepository, log *logger.Logger) *DeleteUseCase {
	return &DeleteUseCase{records: records, users: users, log: log.Component("report.delete")}
}

// Delete borra un reporte de un usuario administrado por la identidad.
func (uc *DeleteUseCase) Delete(ctx context.Context, id entity.Identity, recordID string) error {
	rec, err := uc.records.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrNotFound
	}
	if id.Role != entity.RoleAdmin {
		return fmt.Errorf("%w: solo un admin puede borrar reportes", domain.ErrAccessDenied)
	}
	owner, err := uc.users.GetByID(ctx, rec.UserID)
	if err != nil {
		return err
	}
	if owner == nil || !owner.ManagedBy(id.UserID) {
		return fmt.Errorf("%w: el reporte no pertenece a un usuario asignado", domain.ErrAccessDenied)
	}
	return uc.remove(ctx, rec, id.UserID)
}

// DeleteAny borra cualquier reporte (superadmin).
func (uc *DeleteUseCase) DeleteAny(ctx context.Context, recordID string) error {
	rec, err := uc.records.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrNotFound
	}
	return uc.remove(ctx, rec, "superadmin")
}

func (uc *DeleteUseCase) remove(ctx context.Context, rec *entity.Record, by string) error {
	if err := uc.records.Delete(ctx, rec.ID); err != nil {
		return err
	}
	uc.log.Info().Str("record_id", rec.ID).Str("owner_id", rec.UserID).Str("by", by).Msg("reporte eliminado")
	return nil
}
