/*
Package server exposes formula evaluation over HTTP.

# Endpoints

	GET  /health       {"status":"ok"}
	POST /v1/evaluate  {"formula":"(1+2)*3"} -> {"result":"9"}
	POST /v1/tokens    {"formula":"1+2"} -> {"tokens":[{"kind","text","pos"}, ...]}
	GET  /v1/stats     running totals
	GET  /metrics      Prometheus exposition

Formulas that fail to parse or evaluate get 422 with "error", "kind", and
"pos". Malformed bodies and formulas longer than CALC_MAX_FORMULA_LEN get 400.
Every response carries an X-Request-ID header.
*/
package server
