package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"clinica-gestion/internal/apierr"
)

// CitasFiltro son los filtros del listado de citas. Los campos vacíos no viajan.
type CitasFiltro struct {
	Page               int
	Search             string
	Estado             string // Pendiente | Completada | Cancelada
	EstadoPago         *bool
	Fecha              string
	FechaInicio        string
	FechaFin           string
	DoctorEspecialidad int
}

func (c *Client) ListarCitas(ctx context.Context, f CitasFiltro) (Page[Cita], error) {
	q := listQuery(f.Page, f.Search)
	if f.Estado != "" {
		q.Set("estado", f.Estado)
	}
	if f.EstadoPago != nil {
		// El backend compara el literal: "true" para pagadas, "False" para
		// pendientes. No tocar la capitalización.
		if *f.EstadoPago {
			q.Set("estado_pago", "true")
		} else {
			q.Set("estado_pago", "False")
		}
	}
	if f.Fecha != "" {
		q.Set("fecha", f.Fecha)
	}
	if f.FechaInicio != "" {
		q.Set("fecha_inicio", f.FechaInicio)
	}
	if f.FechaFin != "" {
		q.Set("fecha_fin", f.FechaFin)
	}
	if f.DoctorEspecialidad > 0 {
		q.Set("doctor_especialidad", strconv.Itoa(f.DoctorEspecialidad))
	}

	var out Page[Cita]
	if err := c.http.DoJSON(ctx, http.MethodGet, withQuery("/citas/", q), nil, &out); err != nil {
		return Page[Cita]{}, apierr.From(err)
	}
	return out, nil
}

// CitaPayload es el cuerpo de creación: nombres denormalizados incluidos,
// el backend los snapshotea y de ahí en adelante son suyos.
type CitaPayload struct {
	Paciente           int    `json:"paciente"`
	PacienteNombre     string `json:"paciente_nombre"`
	DoctorEspecialidad int    `json:"doctor_especialidad"`
	DoctorNombre       string `json:"doctor_nombre"`
	Arancel            int    `json:"arancel"`
	ArancelDescripcion string `json:"arancel_descripcion"`
	FechaHora          string `json:"fecha_hora"`
	EstadoPago         bool   `json:"estado_pago"`
	Estado             string `json:"estado"`
}

func (c *Client) CrearCita(ctx context.Context, in CitaPayload) (Cita, error) {
	var out Cita
	if err := c.http.DoJSON(ctx, http.MethodPost, "/citas/crear/", in, &out); err != nil {
		return Cita{}, apierr.From(err)
	}
	return out, nil
}

// CitaCambios es un PATCH parcial: solo viajan los campos presentes.
type CitaCambios struct {
	FechaHora  *string `json:"fecha_hora,omitempty"`
	Estado     *string `json:"estado,omitempty"`
	EstadoPago *bool   `json:"estado_pago,omitempty"`
}

func (c *Client) EditarCita(ctx context.Context, id int, cambios CitaCambios) (Cita, error) {
	var out Cita
	path := fmt.Sprintf("/citas/editar/%d/", id)
	if err := c.http.DoJSON(ctx, http.MethodPatch, path, cambios, &out); err != nil {
		return Cita{}, apierr.From(err)
	}
	return out, nil
}

func (c *Client) EliminarCita(ctx context.Context, id int) error {
	path := fmt.Sprintf("/citas/eliminar/%d/", id)
	if err := c.http.DoJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return apierr.From(err)
	}
	return nil
}

// MarcarCitaPagada es la conciliación que dispara la facturación:
// estado_pago=true y estado=Completada en un solo PATCH.
func (c *Client) MarcarCitaPagada(ctx context.Context, id int) (Cita, error) {
	pagada := true
	completada := "Completada"
	return c.EditarCita(ctx, id, CitaCambios{
		Estado:     &completada,
		EstadoPago: &pagada,
	})
}
