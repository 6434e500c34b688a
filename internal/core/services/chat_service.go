package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kassabot/kassa_backend/internal/apperrors"
	"github.com/kassabot/kassa_backend/internal/core/domain"
	portsrepo "github.com/kassabot/kassa_backend/internal/core/ports/repositories"
	portssvc "github.com/kassabot/kassa_backend/internal/core/ports/services"
)

type chatService struct {
	BaseService
	chatRepo portsrepo.ChatRepositoryFacade
}

// NewChatService creates a new chat service.
func NewChatService(chatRepo portsrepo.ChatRepositoryFacade) portssvc.ChatSvcFacade {
	return &chatService{chatRepo: chatRepo}
}

// Ensure chatService implements the ChatSvcFacade interface
var _ portssvc.ChatSvcFacade = (*chatService)(nil)

func (s *chatService) RegisterChat(ctx context.Context, chat domain.Chat) (*domain.Chat, error) {
	if err := s.chatRepo.SaveChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to save chat: %w", err)
	}
	s.LogInfo(ctx, "Chat registered", slog.Int64("chat_id", chat.ID))
	return &chat, nil
}

func (s *chatService) GetChat(ctx context.Context, chatID int64) (*domain.Chat, error) {
	chat, err := s.chatRepo.FindChatByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}
	if chat == nil {
		return nil, fmt.Errorf("chat %d: %w", chatID, apperrors.ErrNotFound)
	}
	return chat, nil
}
