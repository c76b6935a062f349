package report

import (
	"encoding/json"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
)

func toRecordResponse(rec *entity.Record, owner *entity.Owner) dto.RecordResponse {
	fields := make(map[string]any, len(rec.Numbers)+len(rec.Texts))
	for k, v := range rec.Numbers {
		fields[k] = json.Number(v.String())
	}
	for k, v := range rec.Texts {
		fields[k] = v
	}
	return dto.RecordResponse{
		ID:            rec.ID,
		UserID:        rec.UserID,
		SchemaVersion: rec.SchemaVersion,
		ReportDay:     rec.ReportDay,
		CreatedAt:     rec.CreatedAt,
		Fields:        fields,
		User:          toOwnerResponse(owner),
	}
}

func toOwnerResponse(o *entity.Owner) *dto.OwnerResponse {
	if o == nil {
		return nil
	}
	return &dto.OwnerResponse{ID: o.ID, Name: o.Name, Email: o.Email}
}
