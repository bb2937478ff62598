package transport

import (
	"net/http"

	"zenith-pos/internal/middleware"
	"zenith-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateUserRequest represents the operator creation payload
type CreateUserRequest struct {
	Name string `json:"name"`
}

// UserHandler handles HTTP requests for operator records
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/deleteMany", h.DeleteMany)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns one page of operators, seeding the defaults on first use
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := pageParams(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	page, err := h.userService.List(r.Context(), cursor, limit)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, page)
}

// Create adds an operator by name
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	user, err := h.userService.Create(r.Context(), req.Name)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, user)
}

// Delete removes one operator; deleting an unknown id reports deleted=false
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := h.userService.Delete(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, DeleteResponse{ID: id, Deleted: deleted})
}

// DeleteMany removes every listed operator
func (h *UserHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var req DeleteManyRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, err)
		return
	}
	ids := nonEmpty(req.IDs)
	if len(ids) == 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "ids required")
		return
	}

	n, err := h.userService.DeleteMany(r.Context(), ids)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, DeleteManyResponse{DeletedCount: n, IDs: ids})
}
