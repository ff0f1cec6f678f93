package middleware

import (
	"net/http"
	"time"

	"clinica-gestion/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger registra cada request con método, ruta, status y duración.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			inicio := time.Now()

			next.ServeHTTP(ww, r)

			log.Info("request", map[string]any{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"bytes":    ww.BytesWritten(),
				"duracion": time.Since(inicio).String(),
				"reqid":    chimw.GetReqID(r.Context()),
			})
		})
	}
}
