package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "itemstore",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	crudErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "itemstore",
			Name:      "item_crud_errors_total",
			Help:      "Failed item CRUD operations by operation.",
		},
		[]string{"op"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, crudErrors)
	})
}

// IncHTTP increments the request counter for an endpoint/status pair.
func IncHTTP(endpoint string, status int) {
	httpRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// IncCRUDError increments the failure counter for a CRUD operation.
func IncCRUDError(op string) {
	crudErrors.WithLabelValues(op).Inc()
}
