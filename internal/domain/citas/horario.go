package citas

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Periodo AM/PM del selector de hora.
type Periodo string

const (
	PeriodoAM Periodo = "AM"
	PeriodoPM Periodo = "PM"
)

// La grilla de horas va de 07:00 a 22:00 en pasos de 30 minutos.
const (
	grillaHoraInicio = 7
	grillaHoraFin    = 22
	grillaPasoMin    = 30
)

var (
	ErrHoraInvalida = errors.New("hora inválida")
)

// OpcionHorario es una entrada de la grilla, en formato 12h + periodo.
type OpcionHorario struct {
	Valor   string  // "07:30", "12:00", ...
	Periodo Periodo
}

func (o OpcionHorario) String() string {
	return o.Valor + " " + string(o.Periodo)
}

// OpcionesHorario genera la grilla completa tal como la ofrecía el selector.
func OpcionesHorario() []OpcionHorario {
	var out []OpcionHorario
	for hora := grillaHoraInicio; hora <= grillaHoraFin; hora++ {
		for minuto := 0; minuto < 60; minuto += grillaPasoMin {
			display := hora
			periodo := PeriodoAM
			if hora >= 12 {
				periodo = PeriodoPM
				if hora > 12 {
					display = hora - 12
				}
			}
			out = append(out, OpcionHorario{
				Valor:   fmt.Sprintf("%02d:%02d", display, minuto),
				Periodo: periodo,
			})
		}
	}
	return out
}

// A24Horas convierte "HH:MM" en 12h + periodo a hora/minuto en 24h.
// 12 AM => 0, 12 PM => 12.
func A24Horas(hora string, periodo Periodo) (int, int, error) {
	partes := strings.SplitN(strings.TrimSpace(hora), ":", 2)
	if len(partes) != 2 {
		return 0, 0, ErrHoraInvalida
	}

	h, err := strconv.Atoi(partes[0])
	if err != nil || h < 1 || h > 12 {
		return 0, 0, ErrHoraInvalida
	}
	m, err := strconv.Atoi(partes[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, ErrHoraInvalida
	}

	switch periodo {
	case PeriodoPM:
		if h != 12 {
			h += 12
		}
	case PeriodoAM:
		if h == 12 {
			h = 0
		}
	default:
		return 0, 0, ErrHoraInvalida
	}

	return h, m, nil
}

// ConstruirFechaHora arma el timestamp por concatenación directa, sin pasar
// por time.Time: lo guardado refleja exactamente lo que eligió el usuario,
// sea cual sea la zona horaria del runtime.
func ConstruirFechaHora(fecha, hora string, periodo Periodo) (string, error) {
	if strings.TrimSpace(fecha) == "" {
		return "", errors.New("fecha requerida")
	}
	h, m, err := A24Horas(hora, periodo)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%sT%02d:%02d:00", fecha, h, m), nil
}

// DescomponerFechaHora separa un fecha_hora almacenado en fecha + hora 12h +
// periodo, para precargar el formulario de edición. Acepta sufijo Z o sin él.
func DescomponerFechaHora(fechaHora string) (fecha, hora string, periodo Periodo, err error) {
	s := strings.TrimSuffix(strings.TrimSpace(fechaHora), "Z")
	partes := strings.SplitN(s, "T", 2)
	if len(partes) != 2 || len(partes[1]) < 5 {
		return "", "", "", fmt.Errorf("fecha_hora inválida: %q", fechaHora)
	}

	fecha = partes[0]
	h, errH := strconv.Atoi(partes[1][0:2])
	m, errM := strconv.Atoi(partes[1][3:5])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return "", "", "", fmt.Errorf("fecha_hora inválida: %q", fechaHora)
	}

	periodo = PeriodoAM
	display := h
	switch {
	case h == 0:
		display = 12
	case h == 12:
		periodo = PeriodoPM
	case h > 12:
		periodo = PeriodoPM
		display = h - 12
	}

	return fecha, fmt.Sprintf("%02d:%02d", display, m), periodo, nil
}

// FechaLocal formatea una fecha de calendario local YYYY-MM-DD (no UTC).
func FechaLocal(t time.Time) string {
	return t.Format("2006-01-02")
}

// FechaAnteriorAHoy compara fechas de calendario como strings, sin
// conversión de zona.
func FechaAnteriorAHoy(fecha string, now time.Time) bool {
	return fecha < FechaLocal(now)
}
