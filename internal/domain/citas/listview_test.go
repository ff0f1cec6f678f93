package citas

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"clinica-gestion/internal/apierr"
	"clinica-gestion/internal/gateway"
	"clinica-gestion/internal/platform/logger"
)

// fakeGateway simula el backend paginando un slice en memoria.
type fakeGateway struct {
	citas   []gateway.Cita
	nextID  int
	fallaEn map[string]error // "listar", "crear", "editar", "eliminar"

	listados []gateway.CitasFiltro
}

func newFakeGateway(citas ...gateway.Cita) *fakeGateway {
	maxID := 0
	for _, c := range citas {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	return &fakeGateway{citas: citas, nextID: maxID + 1, fallaEn: map[string]error{}}
}

func (f *fakeGateway) ListarCitas(_ context.Context, filtro gateway.CitasFiltro) (gateway.Page[gateway.Cita], error) {
	f.listados = append(f.listados, filtro)
	if err := f.fallaEn["listar"]; err != nil {
		return gateway.Page[gateway.Cita]{}, err
	}

	pagina := filtro.Page
	if pagina < 1 {
		pagina = 1
	}
	desde := (pagina - 1) * CitasPorPagina
	hasta := desde + CitasPorPagina
	if desde > len(f.citas) {
		desde = len(f.citas)
	}
	if hasta > len(f.citas) {
		hasta = len(f.citas)
	}

	page := gateway.Page[gateway.Cita]{
		Results: append([]gateway.Cita(nil), f.citas[desde:hasta]...),
		Count:   len(f.citas),
	}
	if hasta < len(f.citas) {
		next := "next"
		page.Next = &next
	}
	if pagina > 1 {
		prev := "prev"
		page.Previous = &prev
	}
	return page, nil
}

func (f *fakeGateway) CrearCita(_ context.Context, in gateway.CitaPayload) (gateway.Cita, error) {
	if err := f.fallaEn["crear"]; err != nil {
		return gateway.Cita{}, err
	}
	c := gateway.Cita{
		ID:                 f.nextID,
		Paciente:           in.Paciente,
		PacienteNombre:     in.PacienteNombre,
		DoctorEspecialidad: in.DoctorEspecialidad,
		DoctorNombre:       in.DoctorNombre,
		Arancel:            in.Arancel,
		ArancelDescripcion: in.ArancelDescripcion,
		FechaHora:          in.FechaHora,
		EstadoPago:         in.EstadoPago,
		Estado:             in.Estado,
	}
	f.nextID++
	f.citas = append([]gateway.Cita{c}, f.citas...)
	return c, nil
}

func (f *fakeGateway) EditarCita(_ context.Context, id int, cambios gateway.CitaCambios) (gateway.Cita, error) {
	if err := f.fallaEn["editar"]; err != nil {
		return gateway.Cita{}, err
	}
	for i := range f.citas {
		if f.citas[i].ID != id {
			continue
		}
		if cambios.FechaHora != nil {
			f.citas[i].FechaHora = *cambios.FechaHora
		}
		if cambios.Estado != nil {
			f.citas[i].Estado = *cambios.Estado
		}
		if cambios.EstadoPago != nil {
			f.citas[i].EstadoPago = *cambios.EstadoPago
		}
		return f.citas[i], nil
	}
	return gateway.Cita{}, errors.New("cita no encontrada")
}

func (f *fakeGateway) EliminarCita(_ context.Context, id int) error {
	if err := f.fallaEn["eliminar"]; err != nil {
		return err
	}
	for i := range f.citas {
		if f.citas[i].ID == id {
			f.citas = append(f.citas[:i], f.citas[i+1:]...)
			return nil
		}
	}
	return errors.New("cita no encontrada")
}

func citasDePrueba(n int) []gateway.Cita {
	out := make([]gateway.Cita, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, gateway.Cita{
			ID:             i,
			PacienteNombre: fmt.Sprintf("Paciente %d", i),
			FechaHora:      "2026-09-01T09:00:00",
			Estado:         "Pendiente",
		})
	}
	return out
}

func newTestView(gw Gateway) *ListView {
	v := NewListView(gw, logger.Nop())
	v.now = func() time.Time {
		return time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	}
	return v
}

func crearInputValido() CrearInput {
	return CrearInput{
		Paciente: &gateway.Paciente{ID: 7, Nombre: "Ana Ruiz"},
		Arancel:  &gateway.Arancel{ID: 3, Descripcion: "Consulta general"},
		Doctor:   &gateway.Doctor{ID: 2, Nombre: "Dr. Pineda"},
		Fecha:    "2026-09-01",
		Hora:     "09:30",
		Periodo:  PeriodoAM,
	}
}

func TestCrearCitaQuedaPendienteSinPagar(t *testing.T) {
	gw := newFakeGateway()
	v := newTestView(gw)

	creada, err := v.Crear(context.Background(), crearInputValido())
	if err != nil {
		t.Fatalf("Crear: %v", err)
	}

	if creada.Estado != "Pendiente" {
		t.Fatalf("estado = %q, quería Pendiente", creada.Estado)
	}
	if creada.EstadoPago {
		t.Fatal("una cita nueva no puede nacer pagada")
	}
	if creada.FechaHora != "2026-09-01T09:30:00" {
		t.Fatalf("fecha_hora = %q", creada.FechaHora)
	}

	snap := v.Snapshot()
	if snap.Total != 1 || len(snap.Citas) != 1 {
		t.Fatalf("snapshot = total %d, %d citas", snap.Total, len(snap.Citas))
	}
	if snap.Citas[0].PacienteNombre != "Ana Ruiz" {
		t.Fatalf("la cita nueva no quedó al frente: %q", snap.Citas[0].PacienteNombre)
	}
}

func TestCrearCitaValidaCampos(t *testing.T) {
	gw := newFakeGateway()
	v := newTestView(gw)

	in := crearInputValido()
	in.Paciente = nil
	in.Fecha = "2026-08-27" // ayer

	_, err := v.Crear(context.Background(), in)

	var val apierr.Validacion
	if !errors.As(err, &val) {
		t.Fatalf("quería errores de validación, fue %v", err)
	}
	if val["paciente"] == "" {
		t.Fatal("falta el error de paciente")
	}
	if val["fecha"] != "La fecha no puede ser anterior a hoy" {
		t.Fatalf("error de fecha = %q", val["fecha"])
	}
	if len(gw.listados) != 0 {
		t.Fatal("un formulario inválido no debe tocar el backend")
	}
}

func TestCrearCitaFallaDejaListaIntacta(t *testing.T) {
	gw := newFakeGateway(citasDePrueba(2)...)
	v := newTestView(gw)
	if err := v.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}

	gw.fallaEn["crear"] = errors.New("backend caído")
	if _, err := v.Crear(context.Background(), crearInputValido()); err == nil {
		t.Fatal("Crear debía fallar")
	}

	snap := v.Snapshot()
	if snap.Total != 2 || len(snap.Citas) != 2 {
		t.Fatalf("la lista cambió tras la falla: total %d, %d citas", snap.Total, len(snap.Citas))
	}
}

func TestEditarParcheaSoloFechaYEstado(t *testing.T) {
	gw := newFakeGateway(citasDePrueba(3)...)
	v := newTestView(gw)
	if err := v.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}

	actualizada, err := v.Editar(context.Background(), 2, EditarInput{
		Fecha:   "2026-09-05",
		Hora:    "04:30",
		Periodo: PeriodoPM,
		Estado:  EstadoCompletada,
	})
	if err != nil {
		t.Fatalf("Editar: %v", err)
	}

	if actualizada.FechaHora != "2026-09-05T16:30:00" {
		t.Fatalf("fecha_hora = %q", actualizada.FechaHora)
	}
	if actualizada.Estado != string(EstadoCompletada) {
		t.Fatalf("estado = %q", actualizada.Estado)
	}
	// Lo demás quedó como estaba.
	if actualizada.PacienteNombre != "Paciente 2" {
		t.Fatalf("paciente_nombre cambió: %q", actualizada.PacienteNombre)
	}

	snap := v.Snapshot()
	for _, c := range snap.Citas {
		if c.ID == 2 && c.FechaHora != "2026-09-05T16:30:00" {
			t.Fatalf("la lista visible no se parcheó: %q", c.FechaHora)
		}
	}
}

func TestEliminarUltimaCitaDePaginaRetrocede(t *testing.T) {
	// 11 citas: páginas de 5, 5 y 1. Borrar la única de la página 3
	// debe dejar la vista en la página 2.
	gw := newFakeGateway(citasDePrueba(11)...)
	v := newTestView(gw)

	if err := v.CambiarPagina(context.Background(), 3); err != nil {
		t.Fatalf("CambiarPagina: %v", err)
	}
	snap := v.Snapshot()
	if len(snap.Citas) != 1 {
		t.Fatalf("página 3 con %d citas, quería 1", len(snap.Citas))
	}

	if err := v.Eliminar(context.Background(), snap.Citas[0].ID); err != nil {
		t.Fatalf("Eliminar: %v", err)
	}

	snap = v.Snapshot()
	if snap.Pagina != 2 {
		t.Fatalf("página = %d, quería 2", snap.Pagina)
	}
	if snap.Total != 10 || len(snap.Citas) != 5 {
		t.Fatalf("snapshot = total %d, %d citas", snap.Total, len(snap.Citas))
	}
}

func TestEliminarFallaConservaLaCita(t *testing.T) {
	gw := newFakeGateway(citasDePrueba(3)...)
	v := newTestView(gw)
	if err := v.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}

	gw.fallaEn["eliminar"] = errors.New("backend caído")
	if err := v.Eliminar(context.Background(), 2); err == nil {
		t.Fatal("Eliminar debía fallar")
	}

	snap := v.Snapshot()
	if snap.Total != 3 || len(snap.Citas) != 3 {
		t.Fatalf("la cita se fue de la vista pese a la falla: total %d, %d citas", snap.Total, len(snap.Citas))
	}
}

func TestCargarFallaLimpiaLista(t *testing.T) {
	gw := newFakeGateway(citasDePrueba(3)...)
	v := newTestView(gw)
	if err := v.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}

	gw.fallaEn["listar"] = errors.New("timeout")
	if err := v.Cargar(context.Background()); err == nil {
		t.Fatal("Cargar debía fallar")
	}

	snap := v.Snapshot()
	if len(snap.Citas) != 0 {
		t.Fatal("la lista debía quedar vacía tras la falla")
	}
	if snap.Error == "" {
		t.Fatal("falta el mensaje para reintentar")
	}

	// Reintento exitoso.
	delete(gw.fallaEn, "listar")
	if err := v.Cargar(context.Background()); err != nil {
		t.Fatalf("reintento: %v", err)
	}
	if snap = v.Snapshot(); len(snap.Citas) != 3 || snap.Error != "" {
		t.Fatalf("el reintento no restauró la vista: %d citas, error %q", len(snap.Citas), snap.Error)
	}
}

func TestBusquedaConDebounce(t *testing.T) {
	gw := newFakeGateway(citasDePrueba(8)...)
	v := newTestView(gw)
	v.debounceEn = 20 * time.Millisecond

	if err := v.CambiarPagina(context.Background(), 2); err != nil {
		t.Fatalf("CambiarPagina: %v", err)
	}
	antes := len(gw.listados)

	// Tres teclas rápidas: solo la última debe consultar.
	v.SetBusqueda("A")
	v.SetBusqueda("An")
	v.SetBusqueda("Ana")

	time.Sleep(100 * time.Millisecond)

	despues := gw.listados[antes:]
	if len(despues) != 1 {
		t.Fatalf("%d consultas tras el debounce, quería 1", len(despues))
	}
	if despues[0].Search != "Ana" {
		t.Fatalf("search = %q, quería el texto final", despues[0].Search)
	}
	if despues[0].Page != 1 {
		t.Fatalf("page = %d, un cambio de texto debe volver a la página 1", despues[0].Page)
	}
}

func TestRespuestaRezagadaSeDescarta(t *testing.T) {
	gw := newFakeGateway(citasDePrueba(8)...)
	v := newTestView(gw)

	if err := v.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}

	// Simula una respuesta vieja llegando después de una carga más nueva:
	// su seq quedó atrás y no debe pisar el estado.
	v.mu.Lock()
	v.seq++
	seqVieja := v.seq
	v.seq++ // carga "más nueva" ya emitida
	v.mu.Unlock()

	gw.fallaEn["listar"] = errors.New("timeout en la respuesta vieja")
	if err := v.cargar(context.Background(), 1, "viejo", seqVieja); err != nil {
		t.Fatalf("una respuesta rezagada no debe reportar error: %v", err)
	}

	snap := v.Snapshot()
	if len(snap.Citas) != 5 || snap.Error != "" {
		t.Fatalf("la respuesta rezagada pisó el estado: %d citas, error %q", len(snap.Citas), snap.Error)
	}
}

func TestEliminacionEnCursoBloqueaOtra(t *testing.T) {
	gw := newFakeGateway(citasDePrueba(2)...)
	v := newTestView(gw)

	v.mu.Lock()
	v.eliminando = true
	v.mu.Unlock()

	if err := v.Eliminar(context.Background(), 1); !errors.Is(err, ErrEliminacionEnCurso) {
		t.Fatalf("quería ErrEliminacionEnCurso, fue %v", err)
	}
}
