// Package middleware provides the observability layer for designdocs:
// Prometheus metrics and OpenTelemetry tracing for HTTP requests and for
// reveal state transitions.
//
// # Prometheus Metrics
//
//	m := middleware.NewMetrics(middleware.WithNamespace("designdocs"))
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.Handler())
//
// Collected metrics (namespace prefix omitted):
//   - http_requests_total{route,method,status}
//   - http_request_duration_seconds{route}
//   - active_sessions
//   - websocket_frames_total{direction,type}
//   - websocket_errors_total{type}
//   - reveal_transitions_total{variant}
//   - reveal_fast_path_total
//   - reveal_fallback_total
//
// A nil *Metrics is valid and records nothing, so callers never branch on
// whether metrics are enabled.
//
// # OpenTelemetry
//
//	t := middleware.NewTracing(middleware.WithTracerName("designdocs"))
//	r.Use(t.Handler)
//
// Spans use the global tracer provider unless WithTracerProvider is given.
// Configure the provider in main before starting the server.
package middleware
