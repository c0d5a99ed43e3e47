package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Telemetry wraps the handler with OpenTelemetry HTTP instrumentation,
// producing a server span and request metrics per request.
func Telemetry(next http.Handler) http.Handler {
	return otelhttp.NewMiddleware("istak-api")(next)
}
