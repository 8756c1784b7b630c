package api

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/portfolio-api/auth"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rs/zerolog"
)

var errInvalidCredentials = errs.NewUnauthorizedError("invalid email or password")

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	bodyLimit int64
	validate  *validator.Validate
	userRepo  *database.UserRepo
	tokens    *auth.TokenService
}

func newAuthHandler(userRepo *database.UserRepo, tokens *auth.TokenService, cfg router) authHandler {
	logger := cfg.logger.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger, cfg.production),
		logger:    logger,
		bodyLimit: cfg.bodyLimitBytes,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		userRepo:  userRepo,
		tokens:    tokens,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// login exchanges admin credentials for a bearer token
func (h authHandler) login() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req loginRequest
		if err := decodeJSON(w, r, h.bodyLimit, &req); err != nil {
			return err
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if err := h.validate.Struct(req); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
				fe := verrs[0]
				return errs.NewInvalidFieldError(strings.ToLower(fe.Field()), describeLoginRule(fe.Tag()))
			}
			return err
		}

		user, err := h.userRepo.FindByEmail(r.Context(), req.Email)
		if err != nil {
			if errs.IsNotFound(err) {
				return errInvalidCredentials
			}
			return err
		}
		if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
			h.logger.Warn().Str("email", req.Email).Msg("failed login attempt")
			return errInvalidCredentials
		}

		identity := auth.Identity{UserID: user.ID.String(), Email: user.Email}
		token, err := h.tokens.Sign(identity)
		if err != nil {
			return errs.NewInternalErrorWithCause("failed to issue token", err)
		}

		h.responder.WriteJSON(w, http.StatusOK, loginResponse{
			Token: token,
			User:  userResponse{ID: identity.UserID, Email: identity.Email},
		})
		return nil
	})
}

// me returns the identity carried by the caller's token
func (h authHandler) me() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		identity, ok := ctxGetIdentity(r.Context())
		if !ok {
			return errs.NewUnauthorizedError("missing identity")
		}

		h.responder.WriteJSON(w, http.StatusOK, map[string]userResponse{
			"user": {ID: identity.UserID, Email: identity.Email},
		})
		return nil
	})
}

func describeLoginRule(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "is too long"
	default:
		return "is invalid"
	}
}
