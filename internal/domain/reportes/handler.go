package reportes

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinica-gestion/internal/apierr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reportes", func(rr chi.Router) {
		rr.Get("/citas", citasCompletadasHandler(svc))
		rr.Get("/facturas", facturacionHandler(svc))
	})
}

func rangoDeQuery(r *http.Request) Rango {
	q := r.URL.Query()
	return Rango{
		Fecha:       q.Get("fecha"),
		FechaInicio: q.Get("fecha_inicio"),
		FechaFin:    q.Get("fecha_fin"),
	}
}

func citasCompletadasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.CitasCompletadas(r.Context(), rangoDeQuery(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func facturacionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.Facturacion(r.Context(), rangoDeQuery(r))
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
