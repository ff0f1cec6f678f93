package pacientes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinica-gestion/internal/apierr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pacientes", func(pr chi.Router) {
		pr.Get("/", listarPacientesHandler(svc))
		pr.Post("/", crearPacienteHandler(svc))
		pr.Put("/{pacienteID}", actualizarPacienteHandler(svc))
		pr.Delete("/{pacienteID}", eliminarPacienteHandler(svc))

		pr.Get("/{pacienteID}/historicos", historicosHandler(svc))
		pr.Post("/{pacienteID}/historicos", crearHistoricoHandler(svc))
	})
}

type pacienteRequest struct {
	Nombre          string `json:"nombre"`
	Sexo            string `json:"sexo"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Identificacion  string `json:"identificacion"`
	Telefono        string `json:"telefono"`
}

func (req pacienteRequest) input() Input {
	return Input{
		Nombre:          req.Nombre,
		Sexo:            req.Sexo,
		FechaNacimiento: req.FechaNacimiento,
		Identificacion:  req.Identificacion,
		Telefono:        req.Telefono,
	}
}

type historicoRequest struct {
	Fecha  string  `json:"fecha"`
	Peso   float64 `json:"peso"`
	Altura float64 `json:"altura"`
}

func listarPacientesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))

		out, err := svc.Listar(r.Context(), page, q.Get("search"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func crearPacienteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pacienteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}

		p, err := svc.Crear(r.Context(), req.input())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func actualizarPacienteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "pacienteID"))
		if err != nil {
			http.Error(w, "id inválido", http.StatusBadRequest)
			return
		}

		var req pacienteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}

		p, err := svc.Actualizar(r.Context(), id, req.input())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func eliminarPacienteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "pacienteID"))
		if err != nil {
			http.Error(w, "id inválido", http.StatusBadRequest)
			return
		}
		if err := svc.Eliminar(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func historicosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "pacienteID"))
		if err != nil {
			http.Error(w, "id inválido", http.StatusBadRequest)
			return
		}
		out, err := svc.Historicos(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func crearHistoricoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "pacienteID"))
		if err != nil {
			http.Error(w, "id inválido", http.StatusBadRequest)
			return
		}

		var req historicoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}

		h, err := svc.CrearHistorico(r.Context(), id, HistoricoInput{
			Fecha:  req.Fecha,
			Peso:   req.Peso,
			Altura: req.Altura,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, h)
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

	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
}
