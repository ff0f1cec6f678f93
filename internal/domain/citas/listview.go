package citas

import (
	"context"
	"errors"
	"sync"
	"time"

	"clinica-gestion/internal/apierr"
	"clinica-gestion/internal/gateway"
	"clinica-gestion/internal/platform/logger"
)

const (
	// Tamaño de página del listado de citas en el backend.
	CitasPorPagina = 5

	// Ventana de quietud antes de disparar la búsqueda.
	DebounceBusqueda = 500 * time.Millisecond
)

var (
	ErrEliminacionEnCurso = errors.New("eliminación en curso")
)

// ListView mantiene el listado paginado y buscable de citas consistente con
// las acciones del usuario sin recargar todo tras cada mutación. Toda mutación
// pasa por el lock; las cargas asíncronas llevan número de secuencia y las
// respuestas rezagadas se descartan en lugar de pisar estado más nuevo.
type ListView struct {
	mu  sync.Mutex
	gw  Gateway
	log logger.Logger
	now func() time.Time

	busqueda string
	pagina   int

	citas    []gateway.Cita
	total    int
	hayNext  bool
	hayPrev  bool
	ultError string

	seq        uint64 // última carga emitida; respuestas con seq menor se ignoran
	debounce   *time.Timer
	debounceEn time.Duration

	eliminando bool
}

func NewListView(gw Gateway, log logger.Logger) *ListView {
	if log == nil {
		log = logger.Nop()
	}
	return &ListView{
		gw:         gw,
		log:        log,
		now:        time.Now,
		pagina:     1,
		debounceEn: DebounceBusqueda,
	}
}

// Snapshot es la vista de solo lectura que consume la capa de presentación.
type Snapshot struct {
	Citas        []gateway.Cita `json:"citas"`
	Total        int            `json:"total"`
	Pagina       int            `json:"pagina"`
	Busqueda     string         `json:"busqueda"`
	HayNext      bool           `json:"hay_next"`
	HayPrev      bool           `json:"hay_prev"`
	Error        string         `json:"error,omitempty"`
	TotalPaginas int            `json:"total_paginas"`
}

func (v *ListView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	citas := make([]gateway.Cita, len(v.citas))
	copy(citas, v.citas)

	totalPaginas := (v.total + CitasPorPagina - 1) / CitasPorPagina

	return Snapshot{
		Citas:        citas,
		Total:        v.total,
		Pagina:       v.pagina,
		Busqueda:     v.busqueda,
		HayNext:      v.hayNext,
		HayPrev:      v.hayPrev,
		Error:        v.ultError,
		TotalPaginas: totalPaginas,
	}
}

// Cargar trae la página actual de forma síncrona. Una falla limpia la lista
// visible y deja el mensaje para el affordance de reintento.
func (v *ListView) Cargar(ctx context.Context) error {
	v.mu.Lock()
	pagina, busqueda := v.pagina, v.busqueda
	v.seq++
	seq := v.seq
	v.mu.Unlock()

	return v.cargar(ctx, pagina, busqueda, seq)
}

// CambiarPagina navega sin tocar la búsqueda (y sin re-debounce).
func (v *ListView) CambiarPagina(ctx context.Context, pagina int) error {
	if pagina < 1 {
		pagina = 1
	}

	v.mu.Lock()
	v.pagina = pagina
	busqueda := v.busqueda
	v.seq++
	seq := v.seq
	v.mu.Unlock()

	return v.cargar(ctx, pagina, busqueda, seq)
}

// SetBusqueda aplica la disciplina de debounce: cada tecla cancela el timer
// pendiente y solo la última llamada en la ventana de quietud dispara la
// consulta. Un cambio de texto siempre vuelve a página 1.
func (v *ListView) SetBusqueda(texto string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if texto == v.busqueda {
		return
	}
	v.busqueda = texto
	v.pagina = 1

	if v.debounce != nil {
		v.debounce.Stop()
	}
	v.debounce = time.AfterFunc(v.debounceEn, func() {
		v.mu.Lock()
		pagina, busqueda := v.pagina, v.busqueda
		v.seq++
		seq := v.seq
		v.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = v.cargar(ctx, pagina, busqueda, seq)
	})
}

func (v *ListView) cargar(ctx context.Context, pagina int, busqueda string, seq uint64) error {
	page, err := v.gw.ListarCitas(ctx, gateway.CitasFiltro{Page: pagina, Search: busqueda})

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq < v.seq {
		// Respuesta rezagada: ya se emitió una carga más nueva.
		v.log.Debug("respuesta de listado descartada", map[string]any{"seq": seq, "actual": v.seq})
		return nil
	}

	if err != nil {
		v.citas = nil
		v.ultError = "Error al cargar las citas. Por favor, intenta de nuevo."
		v.log.Error("carga de citas fallida", map[string]any{"pagina": pagina, "err": err.Error()})
		return err
	}

	v.citas = page.Results
	v.total = page.Count
	v.hayNext = page.HasNext()
	v.hayPrev = page.HasPrevious()
	v.ultError = ""
	return nil
}

// Crear valida, crea en backend y ajusta la lista en memoria: la nueva cita
// se antepone y el total sube. El payload devuelto no es autoridad de
// paginación, así que estando en página 1 se recarga para reconciliar.
func (v *ListView) Crear(ctx context.Context, in CrearInput) (gateway.Cita, error) {
	if errs := in.Validar(v.now()); !errs.Ok() {
		return gateway.Cita{}, errs
	}

	payload, err := in.payload()
	if err != nil {
		return gateway.Cita{}, err
	}

	creada, err := v.gw.CrearCita(ctx, payload)
	if err != nil {
		return gateway.Cita{}, apierr.From(err)
	}

	v.mu.Lock()
	v.citas = append([]gateway.Cita{creada}, v.citas...)
	v.total++
	recargar := v.pagina == 1
	v.mu.Unlock()

	if recargar {
		_ = v.Cargar(ctx)
	}
	return creada, nil
}

// Editar cambia fecha/hora y estado. En la lista solo se parchean los campos
// modificados del registro existente: nada reconstruye el objeto a mano.
func (v *ListView) Editar(ctx context.Context, id int, in EditarInput) (gateway.Cita, error) {
	if errs := in.Validar(v.now()); !errs.Ok() {
		return gateway.Cita{}, errs
	}

	cambios, err := in.cambios()
	if err != nil {
		return gateway.Cita{}, err
	}

	if _, err := v.gw.EditarCita(ctx, id, cambios); err != nil {
		return gateway.Cita{}, apierr.From(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.citas {
		if v.citas[i].ID != id {
			continue
		}
		v.citas[i].FechaHora = *cambios.FechaHora
		v.citas[i].Estado = *cambios.Estado
		return v.citas[i], nil
	}

	// No estaba en la página visible; el backend ya quedó actualizado.
	return gateway.Cita{ID: id, FechaHora: *cambios.FechaHora, Estado: *cambios.Estado}, nil
}

// Eliminar borra la cita confirmada. Mientras está en vuelo no se admite otra
// eliminación (el modal bloquea su cierre). Si la página quedó vacía y no es
// la primera, retrocede una; si no, recarga la actual para reconciliar conteos
// que pudieron mover otras sesiones.
func (v *ListView) Eliminar(ctx context.Context, id int) error {
	v.mu.Lock()
	if v.eliminando {
		v.mu.Unlock()
		return ErrEliminacionEnCurso
	}
	v.eliminando = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.eliminando = false
		v.mu.Unlock()
	}()

	if err := v.gw.EliminarCita(ctx, id); err != nil {
		// El ítem sigue en la lista y el target queda para reintentar.
		return apierr.From(err)
	}

	v.mu.Lock()
	filtradas := v.citas[:0]
	for _, c := range v.citas {
		if c.ID != id {
			filtradas = append(filtradas, c)
		}
	}
	v.citas = filtradas
	if v.total > 0 {
		v.total--
	}
	pasoAtras := len(v.citas) == 0 && v.pagina > 1
	if pasoAtras {
		v.pagina--
	}
	v.mu.Unlock()

	return v.Cargar(ctx)
}

// EliminandoAhora reporta si hay una eliminación en vuelo (deshabilita el
// cierre del modal de confirmación).
func (v *ListView) EliminandoAhora() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.eliminando
}
