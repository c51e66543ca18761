package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_backend_request_duration_seconds",
			Help:    "Duration of calls to the brief backend in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "outcome"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of portal requests served",
		},
		[]string{"method", "status_class"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_uploads_total",
			Help: "Total number of brief document uploads by outcome",
		},
		[]string{"outcome"},
	)

	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_ai_generations_total",
			Help: "Total number of AI section generations by outcome",
		},
		[]string{"outcome"},
	)

	FieldSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_field_saves_total",
			Help: "Total number of brief field saves by outcome",
		},
		[]string{"outcome"},
	)

	PDFRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portal_pdf_render_duration_seconds",
			Help:    "Duration of brief PDF conversions in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// StatusClass buckets an HTTP status code as "2xx", "4xx" and so on.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
