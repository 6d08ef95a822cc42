// internal/api/agent/handlers.go
package agent

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	provider "github.com/codr1/agentos-lite/internal/agent"
	"github.com/codr1/agentos-lite/internal/api/apiutil"
	"github.com/codr1/agentos-lite/internal/ratelimit"
)

const queryTimeout = 30 * time.Second

var (
	handlerMu  sync.RWMutex
	backend    provider.Provider
	limiter    *ratelimit.Limiter
	trustProxy bool
)

type queryRequest struct {
	Prompt string `json:"prompt"`
}

type queryResponse struct {
	Reply string `json:"reply"`
}

// Deps are the collaborators the query handler needs.
type Deps struct {
	Provider   provider.Provider
	Limiter    *ratelimit.Limiter
	TrustProxy bool
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(deps Deps) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	backend = deps.Provider
	limiter = deps.Limiter
	trustProxy = deps.TrustProxy
}

func loadDeps() (provider.Provider, *ratelimit.Limiter, bool) {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return backend, limiter, trustProxy
}

// POST /api/agent/query
func HandleQuery(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	p, l, trust := loadDeps()
	if p == nil {
		logger.Error().Msg("Query provider not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if l != nil {
		ip := ratelimit.GetClientIP(r, trust)
		if result := l.Allow(ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded(r, ip, result)
			seconds := int(result.RetryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
	}

	var req queryRequest
	if err := apiutil.DecodeJSONLenient(r, &req); err != nil {
		logger.Debug().Err(err).Msg("Invalid query body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	reply, err := p.Query(ctx, req.Prompt)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status:  http.StatusBadGateway,
			Message: err.Error(),
			Err:     err,
		})
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, queryResponse{Reply: reply}); err != nil {
		logger.Error().Err(err).Msg("Failed to write query response")
	}
}
