/*
Package monitoring collects Prometheus metrics for the calc service.

Each Metrics value owns its registry, so tests and multiple servers in one
process never collide on metric registration.

# Metrics

  - calc_http_requests_total{method,path,status}
  - calc_http_request_duration_seconds{method,path}
  - calc_evaluations_total{result}, where result is "ok" or an error kind
  - calc_formula_length_bytes
  - calc_rate_limited_total
  - Go runtime metrics

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	metrics.RecordEvaluation(monitoring.ResultOK, len(formula))
*/
package monitoring
