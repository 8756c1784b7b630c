package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rs/zerolog"
)

// Responder writes JSON bodies. WriteError is the only place an error becomes a response.
type Responder struct {
	logger     zerolog.Logger
	production bool
}

func NewResponder(logger zerolog.Logger, production bool) Responder {
	return Responder{logger: logger, production: production}
}

// handlerFunc is an http.HandlerFunc that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to http.HandlerFunc, routing any returned error through WriteError.
func (r Responder) Handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := fn(w, req); err != nil {
			r.WriteError(w, req, err)
		}
	}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError normalizes err and writes the error envelope.
func (r Responder) WriteError(w http.ResponseWriter, req *http.Request, err error) {
	apiErr := errs.Normalize(err, r.production)

	event := r.logger.Debug()
	if apiErr.StatusCode >= http.StatusInternalServerError {
		event = r.logger.Error()
	}
	event.
		Err(err).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("requestID", middleware.GetReqID(req.Context())).
		Int("status", apiErr.StatusCode).
		Str("code", apiErr.Code).
		Msg(apiErr.Message)

	r.WriteJSON(w, apiErr.StatusCode, apiErr.ToEnvelope())
}

func (r Responder) NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

type dataResponse struct {
	Data any `json:"data"`
}

type listMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type listResponse[T any] struct {
	Data []T      `json:"data"`
	Meta listMeta `json:"meta"`
}
