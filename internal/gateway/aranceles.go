package gateway

import (
	"context"
	"net/http"
	"strings"

	"clinica-gestion/internal/apierr"
)

// ListarAranceles pagina el catálogo filtrado por tipo ("c" o "p").
func (c *Client) ListarAranceles(ctx context.Context, tipo string, page int, search string) (Page[Arancel], error) {
	q := listQuery(page, search)
	q.Set("tipo", strings.TrimSpace(tipo))

	var out Page[Arancel]
	if err := c.http.DoJSON(ctx, http.MethodGet, withQuery("/procedimientos/aranceles/", q), nil, &out); err != nil {
		return Page[Arancel]{}, apierr.From(err)
	}
	return out, nil
}

// ArancelesPorTipo trae el catálogo completo de un tipo, sin paginar.
func (c *Client) ArancelesPorTipo(ctx context.Context, tipo string) ([]Arancel, error) {
	var out []Arancel
	path := "/procedimientos/aranceles/all/?tipo=" + strings.TrimSpace(tipo)
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, apierr.From(err)
	}
	return out, nil
}

// TodosLosAranceles trae el catálogo completo sin filtro de tipo (caja).
func (c *Client) TodosLosAranceles(ctx context.Context) ([]Arancel, error) {
	var out []Arancel
	if err := c.http.DoJSON(ctx, http.MethodGet, "/procedimientos/aranceles/all/", nil, &out); err != nil {
		return nil, apierr.From(err)
	}
	return out, nil
}
