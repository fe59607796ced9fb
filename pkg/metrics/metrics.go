// Package metrics provides the centralized Prometheus metrics registry for
// the ballchasing client. All metrics are defined in their respective
// packages (quota, transport, pagination) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Quota Metrics (pkg/quota):
//   - bc_quota_remaining (Gauge): Estimated requests remaining in the current window
//   - bc_quota_waits_total (Counter): Operations suspended waiting for a window reset
//   - bc_quota_wait_seconds (Histogram): Duration of quota suspensions
//   - bc_quota_exceeded_total (Counter): Quota-exceeded (429) responses observed
//
// Request Metrics (pkg/transport):
//   - bc_requests_total{method, status} (Counter): Total requests by method and HTTP status
//   - bc_request_duration_seconds{method} (Histogram): Request duration by method
//
// Pagination Metrics (pkg/pagination):
//   - bc_pages_fetched_total (Counter): Result pages fetched across all sequences
//
// Example Prometheus Queries:
//
//   # Quota Pressure
//   bc_quota_remaining < 50
//
//   # Suspension Rate
//   rate(bc_quota_waits_total[5m])
//
//   # Request Error Rate
//   sum(rate(bc_requests_total{status=~"4..|5.."}[5m])) / sum(rate(bc_requests_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(bc_request_duration_seconds_bucket[5m]))
//
//   # Pages Fetched Per Second
//   rate(bc_pages_fetched_total[5m])
