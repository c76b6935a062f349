// Package metrics expone contadores Prometheus de HTTP y de negocio.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Reportes-api/internal/application/report"
)

const namespace = "reportes"

var _ report.Metrics = (*Prometheus)(nil)

// Prometheus registro propio con las métricas de la API.
type Prometheus struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	submitted *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	exports   *prometheus.CounterVec
	exportRow *prometheus.HistogramVec
	archive   prometheus.Counter
}

// New crea y registra las métricas. Incluye los collectors de proceso y runtime de Go.
func New() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Peticiones HTTP por método, ruta y estado.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "records_submitted_total",
			Help: "Reportes diarios aceptados por versión de esquema.",
		}, []string{"schema_version"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "records_rejected_total",
			Help: "Reportes rechazados por motivo.",
		}, []string{"reason"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "exports_total",
			Help: "Exports generados por formato.",
		}, []string{"format"}),
		exportRow: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "export_rows",
			Help:    "Filas por export.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"format"}),
		archive: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "export_archive_failures_total",
			Help: "Exports que no se pudieron archivar en S3.",
		}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.requests, p.latency, p.submitted, p.rejected, p.exports, p.exportRow, p.archive,
	)
	return p
}

// Registry registro subyacente (tests).
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Middleware cuenta peticiones y latencia por ruta registrada (no por path crudo).
func (p *Prometheus) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		p.requests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		p.latency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone el registro en formato texto de Prometheus.
func (p *Prometheus) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
}

func (p *Prometheus) RecordSubmitted(schemaVersion string) {
	p.submitted.WithLabelValues(schemaVersion).Inc()
}

func (p *Prometheus) SubmissionRejected(reason string) {
	p.rejected.WithLabelValues(reason).Inc()
}

func (p *Prometheus) ExportGenerated(format string, rows int) {
	p.exports.WithLabelValues(format).Inc()
	p.exportRow.WithLabelValues(format).Observe(float64(rows))
}

func (p *Prometheus) ArchiveFailed() { p.archive.Inc() }
