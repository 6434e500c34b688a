package repositories

import (
	"context"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// ChatRepositoryFacade manages chat group rows.
type ChatRepositoryFacade interface {
	// SaveChat registers a chat group, updating the title when it already exists.
	SaveChat(ctx context.Context, chat domain.Chat) error

	// FindChatByID retrieves a chat group, or nil if absent.
	FindChatByID(ctx context.Context, chatID int64) (*domain.Chat, error)
}
