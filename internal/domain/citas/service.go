package citas

import (
	"context"
	"strings"
	"time"

	"clinica-gestion/internal/apierr"
	"clinica-gestion/internal/gateway"
)

// Gateway es el puerto hacia el backend que necesita el flujo de citas.
type Gateway interface {
	ListarCitas(ctx context.Context, f gateway.CitasFiltro) (gateway.Page[gateway.Cita], error)
	CrearCita(ctx context.Context, in gateway.CitaPayload) (gateway.Cita, error)
	EditarCita(ctx context.Context, id int, cambios gateway.CitaCambios) (gateway.Cita, error)
	EliminarCita(ctx context.Context, id int) error
}

// CrearInput es el formulario de nueva cita: paciente, servicio y doctor ya
// seleccionados de sus buscadores, más fecha y hora de la grilla.
type CrearInput struct {
	Paciente *gateway.Paciente
	Arancel  *gateway.Arancel
	Doctor   *gateway.Doctor
	Fecha    string // YYYY-MM-DD
	Hora     string // "HH:MM" en 12h
	Periodo  Periodo
}

// Validar devuelve errores por campo; vacío = formulario válido.
func (in CrearInput) Validar(now time.Time) apierr.Validacion {
	errs := apierr.Validacion{}

	if in.Paciente == nil {
		errs["paciente"] = "Debe seleccionar un paciente"
	}
	if in.Arancel == nil {
		errs["arancel"] = "Debe seleccionar un servicio"
	}
	if in.Doctor == nil {
		errs["doctor"] = "Debe seleccionar un doctor"
	}

	if strings.TrimSpace(in.Fecha) == "" {
		errs["fecha"] = "La fecha de la cita es requerida"
	} else if FechaAnteriorAHoy(in.Fecha, now) {
		errs["fecha"] = "La fecha no puede ser anterior a hoy"
	}

	if strings.TrimSpace(in.Hora) == "" {
		errs["hora"] = "La hora de la cita es requerida"
	} else if _, _, err := A24Horas(in.Hora, in.Periodo); err != nil {
		errs["hora"] = "La hora de la cita es inválida"
	}

	return errs
}

// payload arma el cuerpo de creación: estado inicial Pendiente, sin pagar,
// nombres denormalizados snapshoteados de las selecciones.
func (in CrearInput) payload() (gateway.CitaPayload, error) {
	fechaHora, err := ConstruirFechaHora(in.Fecha, in.Hora, in.Periodo)
	if err != nil {
		return gateway.CitaPayload{}, err
	}
	return gateway.CitaPayload{
		Paciente:           in.Paciente.ID,
		PacienteNombre:     in.Paciente.Nombre,
		DoctorEspecialidad: in.Doctor.ID,
		DoctorNombre:       in.Doctor.Nombre,
		Arancel:            in.Arancel.ID,
		ArancelDescripcion: in.Arancel.Descripcion,
		FechaHora:          fechaHora,
		EstadoPago:         false,
		Estado:             string(EstadoInicial()),
	}, nil
}

// EditarInput solo admite fecha/hora y estado: paciente, doctor y arancel son
// inmutables después de crear.
type EditarInput struct {
	Fecha   string
	Hora    string
	Periodo Periodo
	Estado  Estado
}

func (in EditarInput) Validar(now time.Time) apierr.Validacion {
	errs := apierr.Validacion{}

	if strings.TrimSpace(in.Fecha) == "" {
		errs["fecha"] = "La fecha de la cita es requerida"
	} else if FechaAnteriorAHoy(in.Fecha, now) {
		errs["fecha"] = "La fecha no puede ser anterior a hoy"
	}

	if strings.TrimSpace(in.Hora) == "" {
		errs["hora"] = "La hora de la cita es requerida"
	} else if _, _, err := A24Horas(in.Hora, in.Periodo); err != nil {
		errs["hora"] = "La hora de la cita es inválida"
	}

	if in.Estado == "" {
		errs["estado"] = "El estado es requerido"
	} else if !in.Estado.Valido() {
		errs["estado"] = "Estado desconocido"
	}

	return errs
}

func (in EditarInput) cambios() (gateway.CitaCambios, error) {
	fechaHora, err := ConstruirFechaHora(in.Fecha, in.Hora, in.Periodo)
	if err != nil {
		return gateway.CitaCambios{}, err
	}
	estado := string(in.Estado)
	return gateway.CitaCambios{
		FechaHora: &fechaHora,
		Estado:    &estado,
	}, nil
}
