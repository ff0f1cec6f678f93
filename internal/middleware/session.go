package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"clinica-gestion/internal/session"
)

// RequireSession corta con 401 cuando no hay sesión iniciada o el access
// token ya venció. Los handlers detrás de este gate pueden asumir sesión
// válida.
func RequireSession(s *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.Autenticado() || s.Expirada(time.Now()) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "sesión requerida"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
