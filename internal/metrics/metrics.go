package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfmdash_renders_total",
			Help: "Dashboard rendering passes by surface and outcome",
		},
		[]string{"surface", "status"}, // html|json|csv|chart|report , ok|invalid|error
	)

	RenderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rfmdash_render_duration_seconds",
			Help:    "Load + render latency per surface",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"surface"},
	)

	DatasetRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rfmdash_dataset_rows",
			Help: "Rows in the most recently loaded dataset",
		},
	)

	IngestRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfmdash_ingest_records_total",
			Help: "Kafka records handled by the ingest worker",
		},
		[]string{"result"}, // stored|rejected|failed
	)

	AlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfmdash_alerts_total",
			Help: "Churn alerts by delivery result",
		},
		[]string{"result"}, // sent|failed
	)
)

var registerOnce sync.Once

// MustRegister registers all collectors once; later calls are no-ops.
func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			RendersTotal,
			RenderDuration,
			DatasetRows,
			IngestRecordsTotal,
			AlertsTotal,
		)
	})
}
