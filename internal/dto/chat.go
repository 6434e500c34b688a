package dto

import (
	"time"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// RegisterChatRequest defines the data needed to register a chat group.
type RegisterChatRequest struct {
	ID    int64  `json:"id" binding:"required"`
	Title string `json:"title"`
}

// ChatResponse defines the data returned for a chat group.
type ChatResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToChatResponse converts a domain.Chat to ChatResponse DTO
func ToChatResponse(chat *domain.Chat) ChatResponse {
	return ChatResponse{
		ID:        chat.ID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt,
	}
}
