package facturacion

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

// FacturasGateway cubre lo que el listado de facturas necesita además de la
// caja.
type FacturasGateway interface {
	ListarFacturas(ctx context.Context, f gateway.FacturasFiltro) (gateway.Page[gateway.Factura], error)
}

func RegisterRoutes(r chi.Router, caja *Caja, facturas FacturasGateway) {
	r.Route("/caja", func(cr chi.Router) {
		cr.Get("/", snapshotHandler(caja))
		cr.Post("/catalogo", cargarCatalogoHandler(caja))
		cr.Post("/paciente", seleccionarPacienteHandler(caja))
		cr.Put("/fecha", fechaHandler(caja))
		cr.Post("/lineas", agregarLineaHandler(caja))
		cr.Delete("/lineas/{lineaID}", eliminarLineaHandler(caja))
		cr.Post("/confirmar", confirmarHandler(caja))
		cr.Post("/reset", resetHandler(caja))
	})

	r.Get("/facturas", listarFacturasHandler(facturas))
}

type seleccionarPacienteRequest struct {
	Paciente gateway.Paciente `json:"paciente"`
}

type fechaRequest struct {
	Fecha string `json:"fecha"`
}

type agregarLineaRequest struct {
	Arancel int `json:"arancel"`
}

func snapshotHandler(caja *Caja) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, caja.Snapshot())
	}
}

func cargarCatalogoHandler(caja *Caja) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := caja.CargarCatalogo(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func seleccionarPacienteHandler(caja *Caja) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req seleccionarPacienteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Paciente.ID == 0 {
			http.Error(w, "paciente inválido", http.StatusBadRequest)
			return
		}
		if err := caja.SeleccionarPaciente(r.Context(), req.Paciente); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, caja.Snapshot())
	}
}

func fechaHandler(caja *Caja) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fechaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}
		caja.SetFecha(req.Fecha)
		writeJSON(w, http.StatusOK, caja.Snapshot())
	}
}

func agregarLineaHandler(caja *Caja) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req agregarLineaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}
		linea, err := caja.AgregarLinea(req.Arancel)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, linea)
	}
}

func eliminarLineaHandler(caja *Caja) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !caja.EliminarLinea(chi.URLParam(r, "lineaID")) {
			http.Error(w, "línea no encontrada", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, caja.Snapshot())
	}
}

func confirmarHandler(caja *Caja) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := caja.Confirmar(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

func resetHandler(caja *Caja) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caja.Reset()
		writeJSON(w, http.StatusOK, caja.Snapshot())
	}
}

func listarFacturasHandler(gw FacturasGateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))

		facturas, err := gw.ListarFacturas(r.Context(), gateway.FacturasFiltro{
			Page:        page,
			Fecha:       q.Get("fecha"),
			FechaInicio: q.Get("fecha_inicio"),
			FechaFin:    q.Get("fecha_fin"),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, facturas)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSinPaciente), errors.Is(err, ErrSinFecha), errors.Is(err, ErrSinLineas):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
		return
	case errors.Is(err, ErrLineaDuplicada), errors.Is(err, ErrArancelNoHallado):
		writeJSON(w, http.StatusConflict, map[string]string{"message": err.Error()})
		return
	}

	var ae *apierr.Error
	if errors.As(err, &ae) {
		status := ae.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, map[string]string{"message": ae.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
}
