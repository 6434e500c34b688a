package services

import (
	"context"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// ChatSvcFacade registers and resolves chat groups.
type ChatSvcFacade interface {
	RegisterChat(ctx context.Context, chat domain.Chat) (*domain.Chat, error)
	GetChat(ctx context.Context, chatID int64) (*domain.Chat, error)
}
