package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kassabot/kassa_backend/internal/apperrors"
	portssvc "github.com/kassabot/kassa_backend/internal/core/ports/services"
	"github.com/kassabot/kassa_backend/internal/dto"
	"github.com/kassabot/kassa_backend/internal/middleware"
)

// balanceHandler handles HTTP requests for balance and settlement reports.
type balanceHandler struct {
	balanceService  portssvc.BalanceSvcFacade
	registryService portssvc.RegistrySvcFacade
}

func newBalanceHandler(bs portssvc.BalanceSvcFacade, rs portssvc.RegistrySvcFacade) *balanceHandler {
	return &balanceHandler{balanceService: bs, registryService: rs}
}

// registerBalanceRoutes registers reporting routes under one chat group.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade, registryService portssvc.RegistrySvcFacade) {
	h := newBalanceHandler(balanceService, registryService)

	rg.GET("/balances", h.listBalances)
	rg.GET("/members/:account/debts", h.resolveDebts)
}

func (h *balanceHandler) listBalances(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	balances, err := h.balanceService.ComputeBalances(c.Request.Context(), chatID)
	if err != nil {
		respondServiceError(c, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBalancesResponse(balances))
}

func (h *balanceHandler) resolveDebts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	account := c.Param("account")

	// ResolveDebts treats an unknown principal as a ledger inconsistency,
	// so a typo'd account has to be caught here, against the registry.
	members, err := h.registryService.ListMembers(c.Request.Context(), chatID, nil)
	if err != nil {
		respondServiceError(c, err, "Failed to list members")
		return
	}
	known := false
	for i := range members {
		if members[i].Account == account {
			known = true
			break
		}
	}
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	breakdown, err := h.balanceService.ResolveDebts(c.Request.Context(), chatID, account)
	if err != nil {
		// An inconsistent ledger is a server fault, not a bad request.
		if errors.Is(err, apperrors.ErrInconsistent) {
			logger.Error("Ledger inconsistency while resolving debts",
				slog.Int64("chat_id", chatID),
				slog.String("account", account),
				slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger inconsistency"})
			return
		}
		respondServiceError(c, err, "Failed to resolve debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtBreakdownResponse(breakdown))
}
