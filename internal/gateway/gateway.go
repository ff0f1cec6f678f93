package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"clinica-gestion/internal/apierr"
	"clinica-gestion/internal/platform/httpclient"
	"clinica-gestion/internal/platform/logger"
)

// Client agrupa todos los endpoints del backend de la clínica en funciones
// tipadas. Es el único lugar que conoce rutas, métodos y query params.
type Client struct {
	http *httpclient.Client
	log  logger.Logger
}

// New crea el gateway contra baseURL. tokens puede ser nil (solo login).
func New(baseURL string, timeout time.Duration, tokens httpclient.TokenProvider, log logger.Logger) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	hc.Tokens = tokens

	if log == nil {
		log = logger.Nop()
	}
	return &Client{http: hc, log: log}, nil
}

// NewWithHTTP permite inyectar el httpclient (tests).
func NewWithHTTP(hc *httpclient.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{http: hc, log: log}
}

type LoginRequest struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

// Login autentica contra el backend. No manda Authorization.
func (c *Client) Login(ctx context.Context, usuario, contrasena string) (LoginResponse, error) {
	var out LoginResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/usuarios/login/", LoginRequest{
		Usuario:    usuario,
		Contrasena: contrasena,
	}, &out, httpclient.WithoutAuth())
	if err != nil {
		c.log.Warn("login fallido", map[string]any{"usuario": usuario})
		return LoginResponse{}, apierr.From(err)
	}
	return out, nil
}

// UsuarioActual consulta la identidad asociada al access token vigente.
func (c *Client) UsuarioActual(ctx context.Context) (PerfilUsuario, error) {
	var out PerfilUsuario
	if err := c.http.DoJSON(ctx, http.MethodGet, "/user/", nil, &out); err != nil {
		return PerfilUsuario{}, apierr.From(err)
	}
	return out, nil
}

// listQuery arma los query params de listados: "page" solo si > 1,
// "search" solo si viene con texto.
func listQuery(page int, search string) url.Values {
	q := url.Values{}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if s := strings.TrimSpace(search); s != "" {
		q.Set("search", s)
	}
	return q
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
