package gateway

import (
	"context"
	"net/http"

	"clinica-gestion/internal/apierr"
)

func (c *Client) ListarDoctores(ctx context.Context, page int, search string) (Page[Doctor], error) {
	var out Page[Doctor]
	path := withQuery("/doctores/index/", listQuery(page, search))
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return Page[Doctor]{}, apierr.From(err)
	}
	return out, nil
}

// TodosLosDoctores trae el roster completo sin paginar (selector de citas).
func (c *Client) TodosLosDoctores(ctx context.Context) ([]Doctor, error) {
	var out []Doctor
	if err := c.http.DoJSON(ctx, http.MethodGet, "/doctores/index2/", nil, &out); err != nil {
		return nil, apierr.From(err)
	}
	return out, nil
}
