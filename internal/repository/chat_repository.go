package repository

import (
	"context"
	"fmt"
	"time"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/store"

	"github.com/google/uuid"
)

// ChatsCollection is the store collection name for chat boards.
const ChatsCollection = "chats"

// ChatRepository defines the interface for chat boards and their messages
type ChatRepository interface {
	EnsureSeed(ctx context.Context) error
	List(ctx context.Context, cursor string, limit int) (store.Page[domain.ChatBoard], error)
	Create(ctx context.Context, title string) (domain.Chat, error)
	SendMessage(ctx context.Context, chatID, userID, text string) (domain.ChatMessage, error)
	ListMessages(ctx context.Context, chatID string) ([]domain.ChatMessage, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
}

type chatRepository struct {
	chats *store.Collection[domain.ChatBoard, *domain.ChatBoard]
	now   func() time.Time
}

// NewChatRepository creates a new instance of ChatRepository seeded with the
// General board.
func NewChatRepository(backend store.Backend, opts ...store.Option) ChatRepository {
	return &chatRepository{
		chats: store.NewCollection[domain.ChatBoard](backend, ChatsCollection, SeedChats(time.Now()), opts...),
		now:   time.Now,
	}
}

func (r *chatRepository) EnsureSeed(ctx context.Context) error {
	if _, err := r.chats.EnsureSeed(ctx); err != nil {
		return fmt.Errorf("failed to seed chats: %w", err)
	}
	return nil
}

func (r *chatRepository) List(ctx context.Context, cursor string, limit int) (store.Page[domain.ChatBoard], error) {
	page, err := r.chats.List(ctx, cursor, limit)
	if err != nil {
		return store.Page[domain.ChatBoard]{}, fmt.Errorf("failed to list chats: %w", err)
	}
	return page, nil
}

func (r *chatRepository) Create(ctx context.Context, title string) (domain.Chat, error) {
	if title == "" {
		return domain.Chat{}, fmt.Errorf("%w: title required", domain.ErrValidation)
	}
	board, err := r.chats.Create(ctx, domain.ChatBoard{Title: title, Messages: []domain.ChatMessage{}})
	if err != nil {
		return domain.Chat{}, fmt.Errorf("failed to create chat: %w", err)
	}
	return board.Chat(), nil
}

// SendMessage appends a message to the board inside a single store update, so
// concurrent senders never overwrite each other.
func (r *chatRepository) SendMessage(ctx context.Context, chatID, userID, text string) (domain.ChatMessage, error) {
	msg := domain.ChatMessage{
		ID:     uuid.NewString(),
		ChatID: chatID,
		UserID: userID,
		Text:   text,
		TS:     r.now().UnixMilli(),
	}
	_, err := r.chats.Mutate(ctx, chatID, func(board *domain.ChatBoard) error {
		board.Messages = append(board.Messages, msg)
		return nil
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID string) ([]domain.ChatMessage, error) {
	board, err := r.chats.Get(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if board.Messages == nil {
		return []domain.ChatMessage{}, nil
	}
	return board.Messages, nil
}

func (r *chatRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.chats.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete chat: %w", err)
	}
	return deleted, nil
}

func (r *chatRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	n, err := r.chats.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chats: %w", err)
	}
	return n, nil
}
