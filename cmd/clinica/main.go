package main

import (
	"net/http"
	"os"
	"time"

	"clinica-gestion/internal/config"
	"clinica-gestion/internal/gateway"
	"clinica-gestion/internal/platform/logger"
	"clinica-gestion/internal/router"
	"clinica-gestion/internal/session"
)

func main() {
	cfg := config.Load()
	log := logger.NewFromEnv()

	store := session.New(cfg.SessionFile, log)
	store.Hydrate()

	gw, err := gateway.New(cfg.APIBaseURL, cfg.HTTPTimeout, store, log)
	if err != nil {
		log.Error("configuración de gateway inválida", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	r := router.NewRouter(router.Options{
		Gateway: gw,
		Session: store,
		Log:     log,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("servidor iniciado", map[string]any{"addr": cfg.Addr(), "api": cfg.APIBaseURL})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("el servidor terminó con error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
