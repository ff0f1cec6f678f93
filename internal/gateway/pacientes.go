package gateway

import (
	"context"
	"fmt"
	"net/http"

	"clinica-gestion/internal/apierr"
)

func (c *Client) ListarPacientes(ctx context.Context, page int, search string) (Page[Paciente], error) {
	var out Page[Paciente]
	path := withQuery("/pacientes/index/", listQuery(page, search))
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return Page[Paciente]{}, apierr.From(err)
	}
	return out, nil
}

type PacientePayload struct {
	Nombre          string `json:"nombre"`
	Sexo            string `json:"sexo"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Identificacion  string `json:"identificacion"`
	Edad            int    `json:"edad"`
	Telefono        string `json:"telefono"`
}

func (c *Client) CrearPaciente(ctx context.Context, in PacientePayload) (Paciente, error) {
	var out Paciente
	if err := c.http.DoJSON(ctx, http.MethodPost, "/pacientes/create/", in, &out); err != nil {
		return Paciente{}, apierr.From(err)
	}
	return out, nil
}

func (c *Client) ActualizarPaciente(ctx context.Context, id int, in PacientePayload) (Paciente, error) {
	var out Paciente
	path := fmt.Sprintf("/pacientes/update/%d/", id)
	if err := c.http.DoJSON(ctx, http.MethodPut, path, in, &out); err != nil {
		return Paciente{}, apierr.From(err)
	}
	return out, nil
}

func (c *Client) EliminarPaciente(ctx context.Context, id int) error {
	path := fmt.Sprintf("/pacientes/delete/%d/", id)
	if err := c.http.DoJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return apierr.From(err)
	}
	return nil
}

func (c *Client) Historicos(ctx context.Context, pacienteID int) ([]Historico, error) {
	var out []Historico
	path := fmt.Sprintf("/pacientes/historicos/%d/", pacienteID)
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, apierr.From(err)
	}
	return out, nil
}

type HistoricoPayload struct {
	Paciente int     `json:"paciente"`
	Fecha    string  `json:"fecha"`
	Peso     float64 `json:"peso"`
	Altura   float64 `json:"altura"`
	IMC      float64 `json:"imc"`
}

func (c *Client) CrearHistorico(ctx context.Context, in HistoricoPayload) (Historico, error) {
	var out Historico
	if err := c.http.DoJSON(ctx, http.MethodPost, "/pacientes/historicos/create/", in, &out); err != nil {
		return Historico{}, apierr.From(err)
	}
	return out, nil
}
