// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	provider "github.com/codr1/agentos-lite/internal/agent"
	"github.com/codr1/agentos-lite/internal/api"
	agentapi "github.com/codr1/agentos-lite/internal/api/agent"
	themeapi "github.com/codr1/agentos-lite/internal/api/themes"
	"github.com/codr1/agentos-lite/internal/config"
	"github.com/codr1/agentos-lite/internal/ratelimit"
)

func newServer(cfg *config.Config, limiter *ratelimit.Limiter) *http.Server {
	router := http.NewServeMux()

	agentapi.InitHandlers(agentapi.Deps{
		Provider:   provider.Mock{},
		Limiter:    limiter,
		TrustProxy: cfg.RateLimit.TrustProxy,
	})

	handler := api.ChainMiddleware(
		router,
		api.WithCORS(cfg.App.AllowedOrigins),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/agent/query", agentapi.HandleQuery)

	// Theme routes
	mux.HandleFunc("GET /api/themes", themeapi.HandleThemesList)
	mux.HandleFunc("GET /api/themes/{name}/vars.css", themeapi.HandleThemeVarsCSS)
	mux.HandleFunc("POST /api/themes/compile", themeapi.HandleThemeCompile)
}
