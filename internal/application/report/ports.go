// Package report contiene los casos de uso del reporte diario: envío, consulta, resumen y export.
package report

import (
	"context"

	"github.com/jhoicas/Reportes-api/internal/domain/schema"
)

// SheetGenerator puerto para producir el documento binario de una hoja (xlsx, pdf).
type SheetGenerator interface {
	Generate(sheet *schema.Sheet) ([]byte, error)
	ContentType() string
	Extension() string
}

// Archiver guarda una copia de los exports generados (S3). Opcional.
type Archiver interface {
	Archive(ctx context.Context, key, contentType string, data []byte) error
}

// Metrics contadores de negocio.
type Metrics interface {
	RecordSubmitted(schemaVersion string)
	SubmissionRejected(reason string)
	ExportGenerated(format string, rows int)
	ArchiveFailed()
}

// NopMetrics descarta todas las métricas.
type NopMetrics struct{}

func (NopMetrics) RecordSubmitted(string)      {}
func (NopMetrics) SubmissionRejected(string)   {}
func (NopMetrics) ExportGenerated(string, int) {}
func (NopMetrics) ArchiveFailed()              {}
