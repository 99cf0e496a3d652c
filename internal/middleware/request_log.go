package middleware

import (
	"net/http"
	"time"

	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger deja en el contexto un logger con request_id, registra una
// línea por request y alimenta las métricas HTTP con el patrón de ruta de chi.
func RequestLogger(log logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log.With(logger.Fields{"request_id": chimw.GetReqID(r.Context())})
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLog)))

			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			route := ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = rc.RoutePattern()
			}
			elapsed := time.Since(start)
			m.ObserveHTTP(r.Method, route, code, elapsed)

			fields := logger.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"route":       route,
				"status":      code,
				"bytes":       ww.BytesWritten(),
				"duration_ms": elapsed.Milliseconds(),
			}
			if code >= 500 {
				reqLog.Error("request", fields)
				return
			}
			reqLog.Debug("request", fields)
		})
	}
}
