package transport

import (
	"net/http"

	"zenith-pos/internal/middleware"
	"zenith-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateChatRequest represents the chat creation payload
type CreateChatRequest struct {
	Title string `json:"title"`
}

// SendMessageRequest represents a new chat message
type SendMessageRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

// ChatHandler handles HTTP requests for chat boards
type ChatHandler struct {
	chatService service.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// RegisterRoutes registers all chat routes
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/chats", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/deleteMany", h.DeleteMany)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/messages", h.ListMessages)
		r.Post("/{id}/messages", h.SendMessage)
	})
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := pageParams(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	page, err := h.chatService.List(r.Context(), cursor, limit)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, page)
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	chat, err := h.chatService.Create(r.Context(), req.Title)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, chat)
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chatService.ListMessages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "chat not found")
		return
	}
	middleware.RespondOK(w, msgs)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	msg, err := h.chatService.SendMessage(r.Context(), chi.URLParam(r, "id"), req.UserID, req.Text)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "chat not found")
		return
	}
	middleware.RespondOK(w, msg)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := h.chatService.Delete(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, DeleteResponse{ID: id, Deleted: deleted})
}

func (h *ChatHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
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

	n, err := h.chatService.DeleteMany(r.Context(), ids)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, DeleteManyResponse{DeletedCount: n, IDs: ids})
}
