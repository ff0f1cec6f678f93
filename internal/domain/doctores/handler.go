// Package doctores expone el directorio de doctores tal como lo sirve el
// backend. No hay lógica propia del lado del cliente, así que el módulo es
// solo lectura y sin capa de servicio.
package doctores

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinica-gestion/internal/apierr"
	"clinica-gestion/internal/gateway"

	"github.com/go-chi/chi/v5"
)

type Gateway interface {
	ListarDoctores(ctx context.Context, page int, search string) (gateway.Page[gateway.Doctor], error)
	TodosLosDoctores(ctx context.Context) ([]gateway.Doctor, error)
}

func RegisterRoutes(r chi.Router, gw Gateway) {
	r.Route("/doctores", func(dr chi.Router) {
		dr.Get("/", listarDoctoresHandler(gw))
		dr.Get("/todos", todosLosDoctoresHandler(gw))
	})
}

func listarDoctoresHandler(gw Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))

		out, err := gw.ListarDoctores(r.Context(), page, q.Get("search"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// todosLosDoctoresHandler alimenta los selectores que necesitan el roster
// completo sin paginar.
func todosLosDoctoresHandler(gw Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := gw.TodosLosDoctores(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		writeJSON(w, ae.Status, map[string]string{"message": ae.Message})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]string{"message": err.Error()})
}
