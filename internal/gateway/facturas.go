package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"clinica-gestion/internal/apierr"
)

type FacturaDetallePayload struct {
	IDArancel int `json:"id_arancel"`
}

type FacturaPayload struct {
	IDPaciente int                     `json:"id_paciente"`
	Fecha      string                  `json:"fecha"`
	Total      decimal.Decimal         `json:"total"`
	Detalles   []FacturaDetallePayload `json:"detalles"`
}

func (c *Client) CrearFactura(ctx context.Context, in FacturaPayload) (Factura, error) {
	var out Factura
	if err := c.http.DoJSON(ctx, http.MethodPost, "/procedimientos/facturas/crear/", in, &out); err != nil {
		return Factura{}, apierr.From(err)
	}
	return out, nil
}

// FacturasFiltro: fecha puntual o rango, mutuamente excluyentes en la práctica
// aunque el backend tolera ambos.
type FacturasFiltro struct {
	Page        int
	Fecha       string
	FechaInicio string
	FechaFin    string
}

func (c *Client) ListarFacturas(ctx context.Context, f FacturasFiltro) (Page[Factura], error) {
	q := url.Values{}
	page := f.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	if f.Fecha != "" {
		q.Set("fecha", f.Fecha)
	}
	if f.FechaInicio != "" {
		q.Set("fecha_inicio", f.FechaInicio)
	}
	if f.FechaFin != "" {
		q.Set("fecha_fin", f.FechaFin)
	}

	var out Page[Factura]
	if err := c.http.DoJSON(ctx, http.MethodGet, withQuery("/procedimientos/facturas/", q), nil, &out); err != nil {
		return Page[Factura]{}, apierr.From(err)
	}
	return out, nil
}
