package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/internal/telemetry"
	"github.com/marmos91/dittonas/pkg/metrics"
)

// LogContext attaches a logger.LogContext carrying the request id and
// client IP. Must run after chi's RequestID and RealIP.
func LogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lc := logger.NewLogContext(chimw.GetReqID(r.Context()), clientIP(r.RemoteAddr))
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), lc)))
	})
}

// Tracing opens a server span per request and records the matched route
// and status once the handler returns.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := telemetry.StartHTTPSpan(r)
		defer span.End()

		logger.FromContext(ctx).SetTrace(telemetry.SpanIDs(ctx))

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		span.SetAttributes(
			telemetry.HTTPRoute(routePattern(r)),
			telemetry.HTTPStatus(ww.Status()),
			telemetry.ClientIP(clientIP(r.RemoteAddr)),
		)
	})
}

// Metrics records request counts, durations and the in-flight gauge. A nil
// m disables the middleware.
func Metrics(m metrics.APIMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.RecordRequestStart(r.Method)
			defer m.RecordRequestEnd(r.Method)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			m.RecordRequest(r.Method, routePattern(r), ww.Status(), time.Since(start))
		})
	}
}

// routePattern returns the chi pattern the request matched, or "unmatched"
// for 404s so raw paths never become label values.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
