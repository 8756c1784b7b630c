package api

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/portfolio-api/auth"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rs/zerolog"
)

type authMiddleware struct {
	responder Responder
	tokens    *auth.TokenService
}

func newAuthMiddleware(tokens *auth.TokenService, responder Responder) authMiddleware {
	return authMiddleware{responder: responder, tokens: tokens}
}

// authenticate rejects requests without a valid bearer token and stores the identity on the context.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.responder.WriteError(w, r, errs.NewUnauthorizedError("missing authorization header"))
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			m.responder.WriteError(w, r, errs.NewUnauthorizedError("authorization header must use the Bearer scheme"))
			return
		}

		identity, err := m.tokens.Verify(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token has expired"
			}
			m.responder.WriteError(w, r, errs.NewUnauthorizedError(msg))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithIdentity(r.Context(), identity)))
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// recoverPanics turns a panic into an INTERNAL_ERROR envelope, logging the stack.
func recoverPanics(responder Responder, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error().
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Str("requestID", middleware.GetReqID(r.Context())).
						Interface("panic", rec).
						Str("stack", string(debug.Stack())).
						Msg("Recovered from panic")

					if !srw.wroteHeader {
						responder.WriteError(srw, r, errs.NewInternalError("internal server error"))
					}
				}
			}()

			next.ServeHTTP(srw, r)
		})
	}
}

// httpLogging logs every request with a level chosen by status class.
func httpLogging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(srw, r)

			var logEvent *zerolog.Event
			switch {
			case srw.status >= 500:
				logEvent = logger.Error()
			case srw.status >= 400:
				logEvent = logger.Warn()
			default:
				logEvent = logger.Info()
			}

			logEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Str("requestID", middleware.GetReqID(r.Context())).
				Msg("HTTP Request")
		})
	}
}

// notFound answers unmatched routes and unsupported methods alike.
func notFound(responder Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, r, errs.NewNotFoundError("route not found"))
	}
}
