package transport

import (
	"net/http"

	"zenith-pos/internal/middleware"
	"zenith-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler handles operator login
type AuthHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the login route. limiter may be nil.
func (h *AuthHandler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter)
		}
		r.Post("/api/login", h.Login)
	})
}

// Login authenticates an operator. The token travels in the X-Auth-Token
// header; the body carries the operator without its password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	token, user, err := h.userService.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.String("name", req.Name), zap.Error(err))
		respondWithServiceError(w, h.logger, err, "")
		return
	}

	h.logger.Info("Operator logged in", zap.String("user_id", user.ID))
	w.Header().Set(middleware.TokenHeader, token)
	middleware.RespondOK(w, user)
}
