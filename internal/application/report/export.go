package report

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
	"github.com/jhoicas/Reportes-api/internal/domain/schema"
	"github.com/jhoicas/Reportes-api/pkg/logger"
	"github.com/jhoicas/Reportes-api/pkg/timeutil"
)

// DefaultFormat formato de export si el cliente no indica otro.
const DefaultFormat = "xlsx"

// ExportFile documento listo para descargar.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// ExportConfig parámetros de presentación y archivo del export.
type ExportConfig struct {
	TimeLayout    string
	ArchivePrefix string
}

// ExportUseCase genera la hoja seccionada y totalizada sobre el mismo alcance que el listado.
type ExportUseCase struct {
	records    repository.RecordRepository
	scopes     *ScopeResolver
	schema     *schema.Schema
	cal        *timeutil.Calendar
	generators map[string]SheetGenerator
	archiver   Archiver
	metrics    Metrics
	cfg        ExportConfig
	log        *logger.Logger
}

// NewExportUseCase construye el caso de uso. archiver puede ser nil.
func NewExportUseCase(
	records repository.RecordRepository,
	scopes *ScopeResolver,
	s *schema.Schema,
	cal *timeutil.Calendar,
	generators map[string]SheetGenerator,
	archiver Archiver,
	metrics Metrics,
	cfg ExportConfig,
	log *logger.Logger,
) *ExportUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if cfg.TimeLayout == "" {
		cfg.TimeLayout = "1/2/2006, 3:04:05 PM"
	}
	return &ExportUseCase{
		records: records, scopes: scopes, schema: s, cal: cal, generators: generators,
		archiver: archiver, metrics: metrics, cfg: cfg, log: log.Component("report.export"),
	}
}

// Export genera el documento. Si el generador falla no se devuelve documento alguno.
func (uc *ExportUseCase) Export(ctx context.Context, id entity.Identity, q dto.ExportQuery) (*ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(q.Format))
	if format == "" {
		format = DefaultFormat
	}
	gen, ok := uc.generators[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, q.Format)
	}

	from, to, err := parseRange(uc.cal, q.Start, q.End)
	if err != nil {
		return nil, err
	}
	scope, err := uc.scopes.Resolve(ctx, id, q.UserID)
	if err != nil {
		return nil, err
	}

	var rows []entity.OwnedRecord
	if !scope.Empty() {
		rows, err = uc.records.ListAll(ctx, scope.Filter(from, to))
		if err != nil {
			return nil, err
		}
	}

	sheet := schema.BuildSheet(uc.schema, rows, uc.cal.Location(), uc.cfg.TimeLayout)
	data, err := gen.Generate(sheet)
	if err != nil {
		return nil, fmt.Errorf("generar export %s: %w", format, err)
	}

	now := uc.cal.Now()
	file := &ExportFile{
		Filename:    fmt.Sprintf("Report_%s_%d.%s", scope.Label(), now.UnixMilli(), gen.Extension()),
		ContentType: gen.ContentType(),
		Data:        data,
		Rows:        len(rows),
	}
	uc.metrics.ExportGenerated(format, file.Rows)
	uc.log.Info().
		Str("user_id", id.UserID).
		Str("scope", scope.Label()).
		Str("format", format).
		Int("rows", file.Rows).
		Msg("export generado")

	if uc.archiver != nil {
		key := path.Join(uc.cfg.ArchivePrefix, uc.cal.DayKey(now), file.Filename)
		if err := uc.archiver.Archive(ctx, key, file.ContentType, file.Data); err != nil {
			uc.metrics.ArchiveFailed()
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo archivar el export")
		}
	}
	return file, nil
}
