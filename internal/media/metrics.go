package media

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_media_operations_total",
		Help: "Media store operations by kind and outcome.",
	}, []string{"op", "result"})

	uploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_media_upload_bytes",
		Help:    "Size of accepted image uploads.",
		Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
	})
)

func observe(op, result string) {
	operations.WithLabelValues(op, result).Inc()
}
