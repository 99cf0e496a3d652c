package middleware

import (
	"net/http"
	"runtime/debug"

	"civic-grievances/internal/platform/logger"
)

// Recover reemplaza a chimw.Recoverer para que el panic quede en el log
// estructurado con su request_id.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context(), log).Error("panic recovered", logger.Fields{
					"panic": rec,
					"stack": string(debug.Stack()),
				})
				http.Error(w, "internal error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
