package reportes

import (
	"context"
	"time"

	"clinica-gestion/internal/apierr"
	"clinica-gestion/internal/gateway"
	"clinica-gestion/internal/platform/logger"

	"github.com/shopspring/decimal"
)

// Gateway es el puerto hacia el backend que necesitan los reportes.
type Gateway interface {
	ListarCitas(ctx context.Context, f gateway.CitasFiltro) (gateway.Page[gateway.Cita], error)
	ListarFacturas(ctx context.Context, f gateway.FacturasFiltro) (gateway.Page[gateway.Factura], error)
	TodosLosAranceles(ctx context.Context) ([]gateway.Arancel, error)
}

// ingresoPorDefecto se usa cuando una cita referencia un arancel que ya no
// está en el catálogo; el monto real dejó de ser recuperable.
var ingresoPorDefecto = decimal.NewFromInt(250)

// Rango filtra un reporte por fecha puntual o por intervalo; vacío = todo.
type Rango struct {
	Fecha       string
	FechaInicio string
	FechaFin    string
}

// ResumenCitas es el reporte de citas completadas y cobradas.
type ResumenCitas struct {
	Citas    []gateway.Cita  `json:"citas"`
	Total    int             `json:"total"`
	Ingresos decimal.Decimal `json:"ingresos"`
}

// ResumenFacturas es el reporte de facturación del periodo.
type ResumenFacturas struct {
	Facturas []gateway.Factura `json:"facturas"`
	Total    int               `json:"total"`
	Monto    decimal.Decimal   `json:"monto"`
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

// CitasCompletadas arma el resumen del periodo: solo citas Completadas y
// pagadas, con el ingreso de cada una resuelto contra el catálogo de
// aranceles vigente.
func (s *Service) CitasCompletadas(ctx context.Context, r Rango) (ResumenCitas, error) {
	aranceles, err := s.gw.TodosLosAranceles(ctx)
	if err != nil {
		return ResumenCitas{}, apierr.From(err)
	}
	precios := make(map[int]decimal.Decimal, len(aranceles))
	for _, a := range aranceles {
		precios[a.ID] = a.Precio
	}

	pagada := true
	page, err := s.gw.ListarCitas(ctx, gateway.CitasFiltro{
		Estado:      "Completada",
		EstadoPago:  &pagada,
		Fecha:       r.Fecha,
		FechaInicio: r.FechaInicio,
		FechaFin:    r.FechaFin,
	})
	if err != nil {
		return ResumenCitas{}, apierr.From(err)
	}

	ingresos := decimal.Zero
	for _, cita := range page.Results {
		precio, ok := precios[cita.Arancel]
		if !ok {
			s.log.Warn("cita completada con arancel fuera de catálogo", map[string]any{
				"cita": cita.ID, "arancel": cita.Arancel,
			})
			precio = ingresoPorDefecto
		}
		ingresos = ingresos.Add(precio)
	}

	return ResumenCitas{
		Citas:    page.Results,
		Total:    page.Count,
		Ingresos: ingresos,
	}, nil
}

// Facturacion suma los totales de las facturas del periodo.
func (s *Service) Facturacion(ctx context.Context, r Rango) (ResumenFacturas, error) {
	page, err := s.gw.ListarFacturas(ctx, gateway.FacturasFiltro{
		Fecha:       r.Fecha,
		FechaInicio: r.FechaInicio,
		FechaFin:    r.FechaFin,
	})
	if err != nil {
		return ResumenFacturas{}, apierr.From(err)
	}

	monto := decimal.Zero
	for _, f := range page.Results {
		monto = monto.Add(f.Total)
	}

	return ResumenFacturas{
		Facturas: page.Results,
		Total:    page.Count,
		Monto:    monto,
	}, nil
}
