package router

import (
	"net/http"

	"clinica-gestion/internal/domain/aranceles"
	"clinica-gestion/internal/domain/citas"
	"clinica-gestion/internal/domain/cuenta"
	"clinica-gestion/internal/domain/doctores"
	"clinica-gestion/internal/domain/facturacion"
	"clinica-gestion/internal/domain/pacientes"
	"clinica-gestion/internal/domain/reportes"
	"clinica-gestion/internal/gateway"
	"clinica-gestion/internal/middleware"
	"clinica-gestion/internal/platform/logger"
	"clinica-gestion/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Gateway *gateway.Client
	Session *session.Store
	Log     logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Login queda fuera del gate de sesión.
	cuenta.RegisterPublicRoutes(r, opts.Gateway, opts.Session)

	// Controladores con estado propio, uno por módulo.
	vistaCitas := citas.NewListView(opts.Gateway, opts.Log)
	caja := facturacion.NewCaja(opts.Gateway, opts.Log)
	pacientesSvc := pacientes.NewService(opts.Gateway, opts.Log)
	reportesSvc := reportes.NewService(opts.Gateway, opts.Log)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireSession(opts.Session))

		cuenta.RegisterRoutes(pr, opts.Gateway, opts.Session)
		citas.RegisterRoutes(pr, vistaCitas)
		facturacion.RegisterRoutes(pr, caja, opts.Gateway)
		pacientes.RegisterRoutes(pr, pacientesSvc)
		doctores.RegisterRoutes(pr, opts.Gateway)
		aranceles.RegisterRoutes(pr, opts.Gateway)
		reportes.RegisterRoutes(pr, reportesSvc)
	})

	return r
}
