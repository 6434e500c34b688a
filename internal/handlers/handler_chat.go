package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kassabot/kassa_backend/internal/core/domain"
	portssvc "github.com/kassabot/kassa_backend/internal/core/ports/services"
	"github.com/kassabot/kassa_backend/internal/dto"
	"github.com/kassabot/kassa_backend/internal/middleware"
)

// chatHandler handles HTTP requests related to chat groups.
type chatHandler struct {
	chatService portssvc.ChatSvcFacade
}

func newChatHandler(cs portssvc.ChatSvcFacade) *chatHandler {
	return &chatHandler{chatService: cs}
}

// registerChatRoutes registers routes related to chat groups.
func registerChatRoutes(rg *gin.RouterGroup, chatService portssvc.ChatSvcFacade) {
	h := newChatHandler(chatService)

	chats := rg.Group("/chats")
	{
		chats.POST("", h.registerChat)
		chats.GET("/:chatID", h.getChat)
	}
}

func (h *chatHandler) registerChat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterChat", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	chat, err := h.chatService.RegisterChat(c.Request.Context(), domain.Chat{
		ID:        req.ID,
		Title:     req.Title,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logger.Error("Failed to register chat", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to register chat")
		return
	}
	c.JSON(http.StatusCreated, dto.ToChatResponse(chat))
}

func (h *chatHandler) getChat(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	chat, err := h.chatService.GetChat(c.Request.Context(), chatID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch chat")
		return
	}
	c.JSON(http.StatusOK, dto.ToChatResponse(chat))
}
