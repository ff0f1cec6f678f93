package citas

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinica-gestion/internal/apierr"
	"clinica-gestion/internal/gateway"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, view *ListView) {
	r.Route("/citas", func(cr chi.Router) {
		cr.Get("/", snapshotHandler(view))
		cr.Post("/cargar", cargarHandler(view))
		cr.Put("/pagina/{pagina}", cambiarPaginaHandler(view))
		cr.Post("/busqueda", busquedaHandler(view))
		cr.Get("/horarios", horariosHandler())

		cr.Post("/", crearCitaHandler(view))
		cr.Patch("/{citaID}", editarCitaHandler(view))
		cr.Delete("/{citaID}", eliminarCitaHandler(view))
	})
}

type crearCitaRequest struct {
	Paciente *gateway.Paciente `json:"paciente"`
	Arancel  *gateway.Arancel  `json:"arancel"`
	Doctor   *gateway.Doctor   `json:"doctor"`
	Fecha    string            `json:"fecha"`
	Hora     string            `json:"hora"`
	Periodo  string            `json:"periodo"`
}

type editarCitaRequest struct {
	Fecha   string `json:"fecha"`
	Hora    string `json:"hora"`
	Periodo string `json:"periodo"`
	Estado  string `json:"estado"`
}

type busquedaRequest struct {
	Texto string `json:"texto"`
}

type horarioResponse struct {
	Valor   string `json:"valor"`
	Periodo string `json:"periodo"`
}

func snapshotHandler(view *ListView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, view.Snapshot())
	}
}

func cargarHandler(view *ListView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := view.Cargar(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view.Snapshot())
	}
}

func cambiarPaginaHandler(view *ListView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pagina, err := strconv.Atoi(chi.URLParam(r, "pagina"))
		if err != nil || pagina < 1 {
			http.Error(w, "página inválida", http.StatusBadRequest)
			return
		}
		if err := view.CambiarPagina(r.Context(), pagina); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view.Snapshot())
	}
}

// busquedaHandler registra el texto tecleado; la consulta real sale después
// de la ventana de debounce, por eso responde 202.
func busquedaHandler(view *ListView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req busquedaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}
		view.SetBusqueda(req.Texto)
		w.WriteHeader(http.StatusAccepted)
	}
}

func horariosHandler() http.HandlerFunc {
	opciones := OpcionesHorario()
	out := make([]horarioResponse, 0, len(opciones))
	for _, o := range opciones {
		out = append(out, horarioResponse{Valor: o.Valor, Periodo: string(o.Periodo)})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, out)
	}
}

func crearCitaHandler(view *ListView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req crearCitaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}

		creada, err := view.Crear(r.Context(), CrearInput{
			Paciente: req.Paciente,
			Arancel:  req.Arancel,
			Doctor:   req.Doctor,
			Fecha:    req.Fecha,
			Hora:     req.Hora,
			Periodo:  Periodo(req.Periodo),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, creada)
	}
}

func editarCitaHandler(view *ListView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "citaID"))
		if err != nil {
			http.Error(w, "id inválido", http.StatusBadRequest)
			return
		}

		var req editarCitaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}

		actualizada, err := view.Editar(r.Context(), id, EditarInput{
			Fecha:   req.Fecha,
			Hora:    req.Hora,
			Periodo: Periodo(req.Periodo),
			Estado:  Estado(req.Estado),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, actualizada)
	}
}

func eliminarCitaHandler(view *ListView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "citaID"))
		if err != nil {
			http.Error(w, "id inválido", http.StatusBadRequest)
			return
		}
		if err := view.Eliminar(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view.Snapshot())
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
	var val apierr.Validacion
	if errors.As(err, &val) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errores": val})
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

	if errors.Is(err, ErrEliminacionEnCurso) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Hay una eliminación en curso"})
		return
	}

	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
}
