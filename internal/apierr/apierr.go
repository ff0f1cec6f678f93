package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"clinica-gestion/internal/platform/httpclient"
)

// Error es el punto único de normalización de fallas del backend.
// Status = 0 significa error de red/transporte (sin respuesta HTTP).
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("error %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// From convierte cualquier error del httpclient en *Error.
// Si el body del backend trae {"message": "..."} se usa ese detalle.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		msg := serverMessage(he.Body)
		if msg == "" {
			msg = fmt.Sprintf("respuesta inesperada del servidor (%d)", he.StatusCode)
		}
		return &Error{Status: he.StatusCode, Message: msg, Err: err}
	}

	return &Error{Status: 0, Message: "no se pudo contactar al servidor", Err: err}
}

// IsStatus reporta si err es un *Error con el status dado.
func IsStatus(err error, status int) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == status
}

func serverMessage(body string) string {
	body = strings.TrimSpace(body)
	if body == "" || !strings.HasPrefix(body, "{") {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if json.Unmarshal([]byte(body), &payload) != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Detail
}

// Validacion agrupa errores de formulario por campo. Nunca llega a la red.
type Validacion map[string]string

func (v Validacion) Error() string {
	if len(v) == 0 {
		return "entrada inválida"
	}
	campos := make([]string, 0, len(v))
	for campo := range v {
		campos = append(campos, campo)
	}
	sort.Strings(campos)

	parts := make([]string, 0, len(campos))
	for _, campo := range campos {
		parts = append(parts, campo+": "+v[campo])
	}
	return strings.Join(parts, "; ")
}

// Ok reporta si no hay errores de campo.
func (v Validacion) Ok() bool { return len(v) == 0 }
