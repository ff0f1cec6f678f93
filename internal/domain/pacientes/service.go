package pacientes

import (
	"context"
	"time"

	"clinica-gestion/internal/apierr"
	"clinica-gestion/internal/gateway"
	"clinica-gestion/internal/platform/logger"
)

// Gateway es el puerto hacia el backend que necesita el módulo de pacientes.
type Gateway interface {
	ListarPacientes(ctx context.Context, page int, search string) (gateway.Page[gateway.Paciente], error)
	CrearPaciente(ctx context.Context, in gateway.PacientePayload) (gateway.Paciente, error)
	ActualizarPaciente(ctx context.Context, id int, in gateway.PacientePayload) (gateway.Paciente, error)
	EliminarPaciente(ctx context.Context, id int) error
	Historicos(ctx context.Context, pacienteID int) ([]gateway.Historico, error)
	CrearHistorico(ctx context.Context, in gateway.HistoricoPayload) (gateway.Historico, error)
}

type Service struct {
	gw  Gateway
	log logger.Logger
	now func() time.Time
}

func NewService(gw Gateway, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{gw: gw, log: log, now: time.Now}
}

func (s *Service) Listar(ctx context.Context, page int, search string) (gateway.Page[gateway.Paciente], error) {
	out, err := s.gw.ListarPacientes(ctx, page, search)
	if err != nil {
		return gateway.Page[gateway.Paciente]{}, apierr.From(err)
	}
	return out, nil
}

// Crear valida el formulario y calcula la edad antes de mandar al backend.
func (s *Service) Crear(ctx context.Context, in Input) (gateway.Paciente, error) {
	payload, err := s.payload(in)
	if err != nil {
		return gateway.Paciente{}, err
	}

	p, err := s.gw.CrearPaciente(ctx, payload)
	if err != nil {
		return gateway.Paciente{}, apierr.From(err)
	}
	return p, nil
}

// Actualizar reenvía el formulario completo; la edad se recalcula siempre,
// nunca se confía en la que traía el registro.
func (s *Service) Actualizar(ctx context.Context, id int, in Input) (gateway.Paciente, error) {
	payload, err := s.payload(in)
	if err != nil {
		return gateway.Paciente{}, err
	}

	p, err := s.gw.ActualizarPaciente(ctx, id, payload)
	if err != nil {
		return gateway.Paciente{}, apierr.From(err)
	}
	return p, nil
}

func (s *Service) Eliminar(ctx context.Context, id int) error {
	if err := s.gw.EliminarPaciente(ctx, id); err != nil {
		return apierr.From(err)
	}
	return nil
}

func (s *Service) payload(in Input) (gateway.PacientePayload, error) {
	if errs := in.Validar(s.now()); !errs.Ok() {
		return gateway.PacientePayload{}, errs
	}

	edad, err := CalcularEdad(in.FechaNacimiento, s.now())
	if err != nil {
		return gateway.PacientePayload{}, err
	}

	return gateway.PacientePayload{
		Nombre:          in.Nombre,
		Sexo:            in.Sexo,
		FechaNacimiento: in.FechaNacimiento,
		Identificacion:  in.Identificacion,
		Edad:            edad,
		Telefono:        FormatearTelefono(in.Telefono),
	}, nil
}

// HistoricoConCategoria agrega la clasificación de IMC que la API no trae.
type HistoricoConCategoria struct {
	gateway.Historico
	Categoria string `json:"categoria"`
}

func (s *Service) Historicos(ctx context.Context, pacienteID int) ([]HistoricoConCategoria, error) {
	registros, err := s.gw.Historicos(ctx, pacienteID)
	if err != nil {
		return nil, apierr.From(err)
	}

	out := make([]HistoricoConCategoria, 0, len(registros))
	for _, h := range registros {
		out = append(out, HistoricoConCategoria{Historico: h, Categoria: CategoriaIMC(h.IMC)})
	}
	return out, nil
}

// CrearHistorico valida peso y altura y calcula el IMC del lado del cliente;
// el backend lo almacena tal cual.
func (s *Service) CrearHistorico(ctx context.Context, pacienteID int, in HistoricoInput) (HistoricoConCategoria, error) {
	if errs := in.Validar(s.now()); !errs.Ok() {
		return HistoricoConCategoria{}, errs
	}

	h, err := s.gw.CrearHistorico(ctx, gateway.HistoricoPayload{
		Paciente: pacienteID,
		Fecha:    in.Fecha,
		Peso:     in.Peso,
		Altura:   in.Altura,
		IMC:      CalcularIMC(in.Peso, in.Altura),
	})
	if err != nil {
		return HistoricoConCategoria{}, apierr.From(err)
	}
	return HistoricoConCategoria{Historico: h, Categoria: CategoriaIMC(h.IMC)}, nil
}
