// Package metrics provides the centralized Prometheus metrics registry for
// the fulfillment client. All metrics are defined in their respective
// packages (gateway, pagination, fulfillment) to maintain modularity and
// avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Gateway Metrics (pkg/gateway):
//   - fulfillment_gateway_requests_total{endpoint, status} (Counter): Backend requests by endpoint and HTTP status
//   - fulfillment_gateway_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - fulfillment_gateway_errors_total{kind} (Counter): Failures by kind (unauthenticated, not_found, validation_or_server, network)
//   - fulfillment_gateway_credential_clears_total (Counter): Credential clears triggered by 401 responses
//
// Pagination Metrics (pkg/pagination):
//   - fulfillment_page_loads_total{endpoint, result} (Counter): Page load attempts by result (success, error)
//   - fulfillment_stale_page_responses_total{endpoint} (Counter): Responses discarded because the query changed mid-flight
//
// Workflow Metrics (pkg/fulfillment):
//   - fulfillment_stage_transitions_total{from, to} (Counter): Session stage transitions
//   - fulfillment_simulate_duration_seconds (Histogram): Simulation call duration
//
// Example Prometheus Queries:
//
//   # Backend Error Rate
//   rate(fulfillment_gateway_errors_total[5m])
//
//   # Share of loads that fail
//   sum(rate(fulfillment_page_loads_total{result="error"}[5m])) /
//   sum(rate(fulfillment_page_loads_total[5m]))
//
//   # P95 Backend Latency
//   histogram_quantile(0.95, rate(fulfillment_gateway_request_duration_seconds_bucket[5m]))
//
//   # Forced re-logins
//   increase(fulfillment_gateway_credential_clears_total[1h])
