package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kassabot/kassa_backend/internal/core/domain"
	portssvc "github.com/kassabot/kassa_backend/internal/core/ports/services"
	"github.com/kassabot/kassa_backend/internal/dto"
	"github.com/kassabot/kassa_backend/internal/middleware"
)

// memberBulkAction is the shared shape of Exclude/Freeze/Unfreeze.
type memberBulkAction func(ctx context.Context, chatID int64, accounts []string) ([]domain.Member, error)

// memberHandler handles HTTP requests related to the member registry.
type memberHandler struct {
	registryService portssvc.RegistrySvcFacade
}

func newMemberHandler(rs portssvc.RegistrySvcFacade) *memberHandler {
	return &memberHandler{registryService: rs}
}

// registerMemberRoutes registers registry routes under one chat group.
func registerMemberRoutes(rg *gin.RouterGroup, registryService portssvc.RegistrySvcFacade) {
	h := newMemberHandler(registryService)

	members := rg.Group("/members")
	{
		members.GET("", h.listMembers)
		members.POST("", h.includeMembers)
		members.DELETE("", h.excludeMembers)
		members.POST("/freeze", h.freezeMembers)
		members.POST("/unfreeze", h.unfreezeMembers)
		members.POST("/:account/zero", h.zeroOutMember)
		members.POST("/:account/claim", h.claimAccount)
	}
}

func (h *memberHandler) listMembers(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	var active *bool
	if raw, present := c.GetQuery("active"); present {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid active filter"})
			return
		}
		active = &parsed
	}

	members, err := h.registryService.ListMembers(c.Request.Context(), chatID, active)
	if err != nil {
		respondServiceError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ListMembersResponse{Members: dto.ToMemberResponses(members)})
}

func (h *memberHandler) includeMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req dto.IncludeMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IncludeMembers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	included, existing, err := h.registryService.Include(c.Request.Context(), chatID, req.Accounts)
	if err != nil {
		respondServiceError(c, err, "Failed to include members")
		return
	}
	c.JSON(http.StatusCreated, dto.IncludeMembersResponse{
		Included: dto.ToMemberResponses(included),
		Existing: dto.ToMemberResponses(existing),
	})
}

func (h *memberHandler) excludeMembers(c *gin.Context) {
	h.bulkAction(c, h.registryService.Exclude, "Failed to exclude members")
}

func (h *memberHandler) freezeMembers(c *gin.Context) {
	h.bulkAction(c, h.registryService.Freeze, "Failed to freeze members")
}

func (h *memberHandler) unfreezeMembers(c *gin.Context) {
	h.bulkAction(c, h.registryService.Unfreeze, "Failed to unfreeze members")
}

func (h *memberHandler) bulkAction(c *gin.Context, action memberBulkAction, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req dto.MembersActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for member action", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	members, err := action(c.Request.Context(), chatID, req.Accounts)
	if err != nil {
		respondServiceError(c, err, fallback)
		return
	}
	c.JSON(http.StatusOK, dto.MembersActionResponse{Members: dto.ToMemberResponses(members)})
}

func (h *memberHandler) zeroOutMember(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	member, err := h.registryService.ZeroOut(c.Request.Context(), chatID, c.Param("account"))
	if err != nil {
		respondServiceError(c, err, "Failed to zero out member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

func (h *memberHandler) claimAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req dto.ClaimAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ClaimAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	member, err := h.registryService.ClaimAccount(c.Request.Context(), chatID, c.Param("account"), req.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to claim account")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}
