// Package metrics exposes Prometheus instrumentation for the HTTP server and
// the bulk video endpoints.
//
// Collected series:
//   - video_catalog_http_requests_total{method,route,status_code}
//   - video_catalog_http_request_duration_seconds{method,route}
//   - video_catalog_batches_total{operation,outcome}
//   - video_catalog_batch_records_total{operation,bucket}
//
// The registry is served at /metrics by the start command.
package metrics
