// Package aranceles expone el catálogo de servicios y procedimientos. Al
// igual que doctores es solo lectura: el mantenimiento del catálogo es del
// backend.
package aranceles

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
	ListarAranceles(ctx context.Context, tipo string, page int, search string) (gateway.Page[gateway.Arancel], error)
	ArancelesPorTipo(ctx context.Context, tipo string) ([]gateway.Arancel, error)
}

func RegisterRoutes(r chi.Router, gw Gateway) {
	r.Route("/aranceles", func(ar chi.Router) {
		ar.Get("/", listarArancelesHandler(gw))
		ar.Get("/todos", arancelesPorTipoHandler(gw))
	})
}

func listarArancelesHandler(gw Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))

		out, err := gw.ListarAranceles(r.Context(), q.Get("tipo"), page, q.Get("search"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func arancelesPorTipoHandler(gw Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := gw.ArancelesPorTipo(r.Context(), r.URL.Query().Get("tipo"))
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
