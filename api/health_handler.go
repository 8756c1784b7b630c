package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const healthProbeTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        pinger
}

func newHealthHandler(db pinger, cfg router) healthHandler {
	logger := cfg.logger.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder: NewResponder(logger, cfg.production),
		logger:    logger,
		db:        db,
	}
}

type healthResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	DB      string `json:"db"`
}

// health probes the database; it answers 503 when the probe fails
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("database health probe failed")
			h.responder.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
				OK: false, Message: "database unreachable", DB: "disconnected",
			})
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, healthResponse{OK: true, Message: "ok", DB: "connected"})
	}
}
