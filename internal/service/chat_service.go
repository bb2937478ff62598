package service

import (
	"context"
	"fmt"
	"strings"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/repository"
	"zenith-pos/internal/store"
)

// ChatService defines the interface for chat boards
type ChatService interface {
	List(ctx context.Context, cursor string, limit int) (store.Page[domain.ChatBoard], error)
	Create(ctx context.Context, title string) (domain.Chat, error)
	SendMessage(ctx context.Context, chatID, userID, text string) (domain.ChatMessage, error)
	ListMessages(ctx context.Context, chatID string) ([]domain.ChatMessage, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
}

// NewChatService creates a new instance of ChatService
func NewChatService(chatRepo repository.ChatRepository) ChatService {
	return &chatService{chatRepo: chatRepo}
}

func (s *chatService) List(ctx context.Context, cursor string, limit int) (store.Page[domain.ChatBoard], error) {
	if err := s.chatRepo.EnsureSeed(ctx); err != nil {
		return store.Page[domain.ChatBoard]{}, err
	}
	return s.chatRepo.List(ctx, cursor, limit)
}

func (s *chatService) Create(ctx context.Context, title string) (domain.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Chat{}, fmt.Errorf("%w: title required", domain.ErrValidation)
	}
	return s.chatRepo.Create(ctx, title)
}

func (s *chatService) SendMessage(ctx context.Context, chatID, userID, text string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if userID == "" || text == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: userId and text required", domain.ErrValidation)
	}
	return s.chatRepo.SendMessage(ctx, chatID, userID, text)
}

func (s *chatService) ListMessages(ctx context.Context, chatID string) ([]domain.ChatMessage, error) {
	return s.chatRepo.ListMessages(ctx, chatID)
}

func (s *chatService) Delete(ctx context.Context, id string) (bool, error) {
	return s.chatRepo.Delete(ctx, id)
}

func (s *chatService) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids required", domain.ErrValidation)
	}
	return s.chatRepo.DeleteMany(ctx, ids)
}
