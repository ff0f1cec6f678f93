// Package cuenta maneja el inicio y cierre de sesión contra el backend.
package cuenta

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"clinica-gestion/internal/apierr"
	"clinica-gestion/internal/gateway"
	"clinica-gestion/internal/session"

	"github.com/go-chi/chi/v5"
)

type Gateway interface {
	Login(ctx context.Context, usuario, contrasena string) (gateway.LoginResponse, error)
	UsuarioActual(ctx context.Context) (gateway.PerfilUsuario, error)
}

// RegisterPublicRoutes monta el login, fuera del gate de sesión.
func RegisterPublicRoutes(r chi.Router, gw Gateway, store *session.Store) {
	r.Post("/login", loginHandler(gw, store))
}

// RegisterRoutes monta lo que sí exige sesión iniciada.
func RegisterRoutes(r chi.Router, gw Gateway, store *session.Store) {
	r.Post("/logout", logoutHandler(store))
	r.Get("/sesion", sesionHandler(store))
	r.Get("/perfil", perfilHandler(gw))
}

type loginRequest struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

type sesionResponse struct {
	Usuario gateway.Usuario `json:"usuario"`
}

func loginHandler(gw Gateway, store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Usuario) == "" || req.Contrasena == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Usuario y contraseña son requeridos"})
			return
		}

		resp, err := gw.Login(r.Context(), req.Usuario, req.Contrasena)
		if err != nil {
			writeError(w, err)
			return
		}

		if err := store.Establecer(resp, req.Usuario); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "no se pudo guardar la sesión"})
			return
		}

		usuario, _ := store.Usuario()
		writeJSON(w, http.StatusOK, sesionResponse{Usuario: usuario})
	}
}

func logoutHandler(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Cerrar()
		w.WriteHeader(http.StatusNoContent)
	}
}

// perfilHandler consulta la identidad directamente al backend, a diferencia
// de /sesion que responde con lo persistido localmente.
func perfilHandler(gw Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		perfil, err := gw.UsuarioActual(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, perfil)
	}
}

func sesionHandler(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		usuario, err := store.Usuario()
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "sesión requerida"})
			return
		}
		writeJSON(w, http.StatusOK, sesionResponse{Usuario: usuario})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		// Credenciales malas llegan como 401 del backend; se reenvían tal cual.
		status := ae.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, map[string]string{"message": ae.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
}
