package citas

// Estado es el ciclo de vida de una cita.
type Estado string

const (
	EstadoPendiente  Estado = "Pendiente"
	EstadoCompletada Estado = "Completada"
	EstadoCancelada  Estado = "Cancelada"
)

// EstadoInicial es el estado con el que nace toda cita.
func EstadoInicial() Estado {
	return EstadoPendiente
}

// Valido reporta si el valor pertenece al enum: ninguna transición iniciada
// por este cliente produce otro valor.
func (e Estado) Valido() bool {
	switch e {
	case EstadoPendiente, EstadoCompletada, EstadoCancelada:
		return true
	}
	return false
}

// Terminal reporta si el flujo normal ya no sale de este estado. La edición
// sigue pudiendo fijar cualquiera de los tres valores: override administrativo
// para corregir cancelaciones o cierres hechos por error.
func (e Estado) Terminal() bool {
	return e == EstadoCompletada || e == EstadoCancelada
}
