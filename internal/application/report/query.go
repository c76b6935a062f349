package report

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
	"github.com/jhoicas/Reportes-api/pkg/timeutil"
)

// QueryUseCase listado paginado y resumen por usuario sobre el alcance visible.
type QueryUseCase struct {
	records repository.RecordRepository
	scopes  *ScopeResolver
	cal     *timeutil.Calendar
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(records repository.RecordRepository, scopes *ScopeResolver, cal *timeutil.Calendar) *QueryUseCase {
	return &QueryUseCase{records: records, scopes: scopes, cal: cal}
}

// List página de reportes visibles, más recientes primero.
func (uc *QueryUseCase) List(ctx context.Context, id entity.Identity, q dto.RecordQuery) (*dto.RecordListResponse, error) {
	from, to, err := parseRange(uc.cal, q.Start, q.End)
	if err != nil {
		return nil, err
	}
	scope, err := uc.scopes.Resolve(ctx, id, q.UserID)
	if err != nil {
		return nil, err
	}
	page := q.PageRequest
	page.Normalize()

	out := &dto.RecordListResponse{Page: page.Page, PageSize: page.PageSize, Records: []dto.RecordResponse{}}
	if scope.Empty() {
		return out, nil
	}

	filter := scope.Filter(from, to)
	total, err := uc.records.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	out.Total = total
	if page.Offset() >= total {
		return out, nil
	}
	list, err := uc.records.List(ctx, filter, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	for i := range list {
		out.Records = append(out.Records, toRecordResponse(&list[i].Record, list[i].Owner))
	}
	return out, nil
}

// Summary conteo y totales por usuario en el rango.
func (uc *QueryUseCase) Summary(ctx context.Context, id entity.Identity, start, end, userID string) (*dto.SummaryResponse, error) {
	from, to, err := parseRange(uc.cal, start, end)
	if err != nil {
		return nil, err
	}
	scope, err := uc.scopes.Resolve(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.SummaryResponse{Users: []dto.UserSummaryResponse{}}
	if scope.Empty() {
		return out, nil
	}
	rows, err := uc.records.SummaryByUser(ctx, scope.Filter(from, to))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		item := dto.UserSummaryResponse{
			UserID:  r.Owner.ID,
			Records: r.Records,
			FirstAt: r.FirstAt,
			LastAt:  r.LastAt,
			Totals:  make(map[string]json.Number, len(r.Totals)),
		}
		if r.OwnerFound {
			owner := r.Owner
			item.User = toOwnerResponse(&owner)
		}
		for k, v := range r.Totals {
			item.Totals[k] = json.Number(v.String())
		}
		out.Users = append(out.Users, item)
	}
	return out, nil
}

// Overview listado global para el superadmin (sin alcance por admin).
func (uc *QueryUseCase) Overview(ctx context.Context, page dto.PageRequest) (*dto.RecordOverviewResponse, error) {
	page.Normalize()
	filter := repository.RecordFilter{AllUsers: true}
	total, err := uc.records.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.RecordOverviewResponse{Total: total, Records: []dto.RecordOverview{}}
	if page.Offset() >= total {
		return out, nil
	}
	list, err := uc.records.List(ctx, filter, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		item := dto.RecordOverview{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			ReportDay: r.ReportDay,
			UserID:    r.UserID,
			UserName:  "Unknown",
			UserRole:  string(entity.RoleUser),
		}
		if r.Owner != nil {
			item.UserName = r.Owner.Name
			item.UserRole = string(r.Owner.Role)
		}
		out.Records = append(out.Records, item)
	}
	return out, nil
}
