package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "crudapp", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "crudapp", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "crudapp", Name: "http_requests_total", Help: "Total number of HTTP requests processed."},
		[]string{"method", "path", "status"},
	)
	ItemOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "crudapp", Name: "item_operations_total", Help: "Item service operations by outcome (ok, not_found, error)."},
		[]string{"op", "result"},
	)
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "crudapp", Name: "uploads_total", Help: "Image uploads by outcome."},
		[]string{"result"},
	)
	UploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "crudapp", Name: "upload_bytes_total", Help: "Bytes written to the uploads directory."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(ItemOperations)
	reg.MustRegister(Uploads)
	reg.MustRegister(UploadBytes)
}
