package pacientes

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"clinica-gestion/internal/apierr"
)

// Teléfono hondureño: "+504 9999-9999".
var telefonoRe = regexp.MustCompile(`^\+504\s\d{4}-\d{4}$`)

// Input es el formulario de alta/edición de paciente. La edad no viene del
// formulario: siempre se recalcula de la fecha de nacimiento.
type Input struct {
	Nombre          string
	Sexo            string
	FechaNacimiento string // YYYY-MM-DD
	Identificacion  string
	Telefono        string
}

// Validar devuelve errores por campo; vacío = formulario válido.
func (in Input) Validar(now time.Time) apierr.Validacion {
	errs := apierr.Validacion{}

	if strings.TrimSpace(in.Nombre) == "" {
		errs["nombre"] = "El nombre es requerido"
	}

	if in.Sexo != "M" && in.Sexo != "F" {
		errs["sexo"] = "El sexo debe ser M o F"
	}

	if strings.TrimSpace(in.FechaNacimiento) == "" {
		errs["fecha_nacimiento"] = "La fecha de nacimiento es requerida"
	} else if fn, err := time.Parse("2006-01-02", in.FechaNacimiento); err != nil {
		errs["fecha_nacimiento"] = "La fecha de nacimiento es inválida"
	} else if !antesDeHoy(fn, now) {
		// Hoy tampoco vale: la fecha debe ser estrictamente anterior.
		errs["fecha_nacimiento"] = "La fecha de nacimiento debe ser anterior a hoy"
	}

	if id := strings.TrimSpace(in.Identificacion); id == "" {
		errs["identificacion"] = "La identificación es requerida"
	} else if len(id) < 13 {
		errs["identificacion"] = "La identificación debe tener al menos 13 caracteres"
	}

	if strings.TrimSpace(in.Telefono) == "" {
		errs["telefono"] = "El teléfono es requerido"
	} else if !telefonoRe.MatchString(in.Telefono) {
		errs["telefono"] = "El teléfono debe tener el formato +504 9999-9999"
	}

	return errs
}

func antesDeHoy(fecha, now time.Time) bool {
	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	f := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, now.Location())
	return f.Before(hoy)
}

func esFutura(fecha, now time.Time) bool {
	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	f := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, now.Location())
	return f.After(hoy)
}

// CalcularEdad devuelve años cumplidos: diferencia de años menos uno si el
// cumpleaños de este año todavía no llega.
func CalcularEdad(fechaNacimiento string, now time.Time) (int, error) {
	fn, err := time.Parse("2006-01-02", fechaNacimiento)
	if err != nil {
		return 0, fmt.Errorf("fecha de nacimiento inválida: %w", err)
	}

	edad := now.Year() - fn.Year()
	if now.Month() < fn.Month() || (now.Month() == fn.Month() && now.Day() < fn.Day()) {
		edad--
	}
	if edad < 0 {
		edad = 0
	}
	return edad, nil
}

// FormatearTelefono normaliza lo tecleado al formato +504 9999-9999 en cuanto
// hay 8 dígitos. Con otra cantidad devuelve la entrada tal cual, para no
// pelear con el usuario a medio teclear.
func FormatearTelefono(entrada string) string {
	var digitos strings.Builder
	for _, r := range entrada {
		if r >= '0' && r <= '9' {
			digitos.WriteRune(r)
		}
	}
	d := digitos.String()
	d = strings.TrimPrefix(d, "504")
	if len(d) != 8 {
		return entrada
	}
	return fmt.Sprintf("+504 %s-%s", d[:4], d[4:])
}

// HistoricoInput es el formulario de un registro médico (peso/altura).
type HistoricoInput struct {
	Fecha  string // YYYY-MM-DD
	Peso   float64
	Altura float64
}

func (in HistoricoInput) Validar(now time.Time) apierr.Validacion {
	errs := apierr.Validacion{}

	if strings.TrimSpace(in.Fecha) == "" {
		errs["fecha"] = "La fecha es requerida"
	} else if f, err := time.Parse("2006-01-02", in.Fecha); err != nil {
		errs["fecha"] = "La fecha es inválida"
	} else if esFutura(f, now) {
		errs["fecha"] = "La fecha no puede ser futura"
	}

	if in.Peso <= 0 || in.Peso > 500 {
		errs["peso"] = "El peso debe estar entre 0 y 500 kg"
	}
	if in.Altura <= 0 || in.Altura > 250 {
		errs["altura"] = "La altura debe estar entre 0 y 250 cm"
	}

	return errs
}

// CalcularIMC devuelve el índice de masa corporal redondeado a un decimal.
// La altura llega en centímetros.
func CalcularIMC(peso, alturaCm float64) float64 {
	m := alturaCm / 100
	imc := peso / (m * m)
	return math.Round(imc*10) / 10
}

// CategoriaIMC clasifica según los cortes de la OMS.
func CategoriaIMC(imc float64) string {
	switch {
	case imc < 18.5:
		return "Bajo peso"
	case imc < 25:
		return "Normal"
	case imc < 30:
		return "Sobrepeso"
	default:
		return "Obesidad"
	}
}
