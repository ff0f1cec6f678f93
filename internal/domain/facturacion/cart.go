package facturacion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"clinica-gestion/internal/apierr"
	"clinica-gestion/internal/gateway"
	"clinica-gestion/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway es el puerto hacia el backend que necesita la caja.
type Gateway interface {
	TodosLosAranceles(ctx context.Context) ([]gateway.Arancel, error)
	ListarCitas(ctx context.Context, f gateway.CitasFiltro) (gateway.Page[gateway.Cita], error)
	CrearFactura(ctx context.Context, in gateway.FacturaPayload) (gateway.Factura, error)
	MarcarCitaPagada(ctx context.Context, id int) (gateway.Cita, error)
}

var (
	ErrLineaDuplicada   = errors.New("el arancel ya está en la factura")
	ErrSinPaciente      = errors.New("Debe seleccionar un paciente")
	ErrSinFecha         = errors.New("Debe seleccionar la fecha de la factura")
	ErrSinLineas        = errors.New("Debe agregar al menos un arancel a la factura")
	ErrArancelNoHallado = errors.New("arancel no encontrado en el catálogo")
)

// Linea es un renglón de la factura en preparación. Las líneas que entraron
// automáticamente desde una cita pendiente llevan DeCita y el id de la cita
// que las originó, para conciliarla al cobrar.
type Linea struct {
	ID      string          `json:"id"`
	Arancel int             `json:"arancel"`
	Nombre  string          `json:"nombre"`
	Precio  decimal.Decimal `json:"precio"`
	DeCita  bool            `json:"de_cita"`
	CitaID  int             `json:"cita_id,omitempty"`
}

// Resultado resume un cobro confirmado: la factura emitida y qué citas
// pendientes quedaron conciliadas o fallaron al marcarse pagadas.
type Resultado struct {
	FacturaID     int   `json:"factura_id"`
	Reconciliadas []int `json:"reconciliadas"`
	Fallidas      []int `json:"fallidas"`
}

// Caja arma la factura de un paciente: carga sus citas pendientes como
// líneas automáticas, admite cargos manuales y al confirmar emite la factura
// y concilia las citas cobradas.
type Caja struct {
	mu  sync.Mutex
	gw  Gateway
	log logger.Logger
	now func() time.Time

	catalogo map[int]gateway.Arancel

	paciente   *gateway.Paciente
	fecha      string
	lineas     []Linea
	pendientes []int // citas pendientes detectadas al seleccionar paciente
}

func NewCaja(gw Gateway, log logger.Logger) *Caja {
	if log == nil {
		log = logger.Nop()
	}
	c := &Caja{
		gw:       gw,
		log:      log,
		now:      time.Now,
		catalogo: map[int]gateway.Arancel{},
	}
	c.fecha = c.now().Format("2006-01-02")
	return c
}

// CargarCatalogo trae el catálogo completo de aranceles. La resolución de
// precios en la caja siempre es contra este catálogo, nunca contra los
// campos denormalizados de la cita.
func (c *Caja) CargarCatalogo(ctx context.Context) error {
	aranceles, err := c.gw.TodosLosAranceles(ctx)
	if err != nil {
		return apierr.From(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalogo = make(map[int]gateway.Arancel, len(aranceles))
	for _, a := range aranceles {
		c.catalogo[a.ID] = a
	}
	return nil
}

// SeleccionarPaciente reinicia la factura para el paciente dado y agrega en
// automático una línea por cada cita suya pendiente y sin pagar. Citas que
// comparten arancel colapsan en una sola línea.
func (c *Caja) SeleccionarPaciente(ctx context.Context, p gateway.Paciente) error {
	sinPagar := false
	page, err := c.gw.ListarCitas(ctx, gateway.CitasFiltro{
		Search:     p.Nombre,
		Estado:     "Pendiente",
		EstadoPago: &sinPagar,
	})
	if err != nil {
		return apierr.From(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.paciente = &p
	c.lineas = nil
	c.pendientes = nil

	for _, cita := range page.Results {
		// La búsqueda por nombre puede traer homónimos; el id manda.
		if cita.Paciente != p.ID {
			continue
		}
		c.pendientes = append(c.pendientes, cita.ID)

		arancel, ok := c.catalogo[cita.Arancel]
		if !ok {
			c.log.Warn("cita pendiente con arancel fuera de catálogo", map[string]any{
				"cita": cita.ID, "arancel": cita.Arancel,
			})
			continue
		}
		if c.tieneArancel(arancel.ID) {
			continue
		}
		c.lineas = append(c.lineas, Linea{
			ID:      fmt.Sprintf("pending-%d", cita.ID),
			Arancel: arancel.ID,
			Nombre:  arancel.Descripcion,
			Precio:  arancel.Precio,
			DeCita:  true,
			CitaID:  cita.ID,
		})
	}
	return nil
}

// AgregarLinea suma un cargo manual por id de arancel. Un arancel ya presente
// en la factura, venga de cita o manual, se rechaza.
func (c *Caja) AgregarLinea(arancelID int) (Linea, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	arancel, ok := c.catalogo[arancelID]
	if !ok {
		return Linea{}, ErrArancelNoHallado
	}
	if c.tieneArancel(arancelID) {
		return Linea{}, ErrLineaDuplicada
	}

	l := Linea{
		ID:      uuid.NewString(),
		Arancel: arancel.ID,
		Nombre:  arancel.Descripcion,
		Precio:  arancel.Precio,
	}
	c.lineas = append(c.lineas, l)
	return l, nil
}

func (c *Caja) EliminarLinea(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lineas {
		if c.lineas[i].ID == id {
			c.lineas = append(c.lineas[:i], c.lineas[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Caja) SetFecha(fecha string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fecha = strings.TrimSpace(fecha)
}

// Total es la suma de las líneas; se recalcula en cada consulta.
func (c *Caja) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

func (c *Caja) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lineas {
		total = total.Add(l.Precio)
	}
	return total
}

func (c *Caja) tieneArancel(arancelID int) bool {
	for _, l := range c.lineas {
		if l.Arancel == arancelID {
			return true
		}
	}
	return false
}

// Confirmar emite la factura y luego concilia las citas pendientes que se
// detectaron al seleccionar el paciente: cada una se marca pagada y
// Completada en su propia llamada. La factura va primero; si falla, nada se
// concilia y el carrito queda intacto. Las fallas de conciliación no abortan
// las demás, solo quedan registradas en el Resultado.
func (c *Caja) Confirmar(ctx context.Context) (Resultado, error) {
	c.mu.Lock()
	switch {
	case c.paciente == nil:
		c.mu.Unlock()
		return Resultado{}, ErrSinPaciente
	case c.fecha == "":
		c.mu.Unlock()
		return Resultado{}, ErrSinFecha
	case len(c.lineas) == 0:
		c.mu.Unlock()
		return Resultado{}, ErrSinLineas
	}

	payload := gateway.FacturaPayload{
		IDPaciente: c.paciente.ID,
		Fecha:      c.fecha,
		Total:      c.totalLocked(),
	}
	for _, l := range c.lineas {
		payload.Detalles = append(payload.Detalles, gateway.FacturaDetallePayload{IDArancel: l.Arancel})
	}
	pendientes := append([]int(nil), c.pendientes...)
	c.mu.Unlock()

	factura, err := c.gw.CrearFactura(ctx, payload)
	if err != nil {
		return Resultado{}, apierr.From(err)
	}

	res := Resultado{FacturaID: factura.ID}
	for _, citaID := range pendientes {
		if _, err := c.gw.MarcarCitaPagada(ctx, citaID); err != nil {
			c.log.Error("no se pudo conciliar la cita cobrada", map[string]any{
				"cita": citaID, "factura": factura.ID, "err": err.Error(),
			})
			res.Fallidas = append(res.Fallidas, citaID)
			continue
		}
		res.Reconciliadas = append(res.Reconciliadas, citaID)
	}

	c.Reset()
	return res, nil
}

// Reset deja la caja lista para el siguiente cobro, con la fecha de hoy
// precargada.
func (c *Caja) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paciente = nil
	c.fecha = c.now().Format("2006-01-02")
	c.lineas = nil
	c.pendientes = nil
}

// Snapshot es la vista de solo lectura para la capa de presentación.
type Snapshot struct {
	Paciente *gateway.Paciente `json:"paciente"`
	Fecha    string            `json:"fecha"`
	Lineas   []Linea           `json:"lineas"`
	Total    decimal.Decimal   `json:"total"`
}

func (c *Caja) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	lineas := make([]Linea, len(c.lineas))
	copy(lineas, c.lineas)

	var p *gateway.Paciente
	if c.paciente != nil {
		cp := *c.paciente
		p = &cp
	}

	return Snapshot{
		Paciente: p,
		Fecha:    c.fecha,
		Lineas:   lineas,
		Total:    c.totalLocked(),
	}
}
