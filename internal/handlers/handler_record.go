package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kassabot/kassa_backend/internal/core/domain"
	portssvc "github.com/kassabot/kassa_backend/internal/core/ports/services"
	"github.com/kassabot/kassa_backend/internal/dto"
	"github.com/kassabot/kassa_backend/internal/middleware"
)

// recordHandler handles HTTP requests for ledger commands and the undo stack.
type recordHandler struct {
	ledgerService  portssvc.LedgerSvcFacade
	historyService portssvc.HistorySvcFacade
}

func newRecordHandler(ls portssvc.LedgerSvcFacade, hs portssvc.HistorySvcFacade) *recordHandler {
	return &recordHandler{ledgerService: ls, historyService: hs}
}

// registerRecordRoutes registers ledger and history routes under one chat group.
func registerRecordRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, historyService portssvc.HistorySvcFacade) {
	h := newRecordHandler(ledgerService, historyService)

	records := rg.Group("/records")
	{
		records.GET("", h.listRecords)
		records.POST("", h.createRecord)
		records.PUT("/message/:messageID", h.amendRecord)
		records.DELETE("/message/:messageID", h.omitByMessage)
		records.PATCH("/message/:messageID/reply", h.linkReply)
		records.POST("/undo", h.undo)
		records.POST("/redo", h.redo)
		records.POST("/omit", h.omitAll)
		records.POST("/restore", h.restoreAll)
		records.PATCH("/:id/active", h.setRecordActive)
	}
}

func recordKind(kind string) domain.RecordKind {
	switch kind {
	case "order":
		return domain.Order
	case "pay":
		return domain.Pay
	case "buy":
		return domain.Buy
	}
	return domain.Give
}

func (h *recordHandler) createRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecord", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	amount := req.AmountMinor()

	var record *domain.Record
	var err error
	switch recordKind(req.Kind) {
	case domain.Order:
		record, err = h.ledgerService.RecordOrder(ctx, chatID, req.Recipients, amount, req.MessageID)
	case domain.Pay:
		record, err = h.ledgerService.RecordPay(ctx, chatID, req.Donor, amount, req.MessageID)
	case domain.Buy:
		record, err = h.ledgerService.RecordBuy(ctx, chatID, req.Donor, req.Recipients, amount, req.MessageID)
	default:
		record, err = h.ledgerService.RecordGive(ctx, chatID, req.Donor, req.Recipients, amount, req.MessageID)
	}
	if err != nil {
		respondServiceError(c, err, "Failed to create record")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecordResponse(record))
}

func (h *recordHandler) amendRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	messageID, ok := messageIDParam(c)
	if !ok {
		return
	}
	var req dto.AmendRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AmendRecord", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	record, err := h.ledgerService.AmendRecord(c.Request.Context(), chatID, messageID, recordKind(req.Kind), req.Donor, req.Recipients, req.AmountMinor())
	if err != nil {
		respondServiceError(c, err, "Failed to amend record")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

func (h *recordHandler) omitByMessage(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	messageID, ok := messageIDParam(c)
	if !ok {
		return
	}

	record, err := h.ledgerService.OmitByMessage(c.Request.Context(), chatID, messageID)
	if err != nil {
		respondServiceError(c, err, "Failed to omit record")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

func (h *recordHandler) linkReply(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	messageID, ok := messageIDParam(c)
	if !ok {
		return
	}
	var req dto.SetRecordReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LinkReply", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	record, err := h.ledgerService.LinkReply(c.Request.Context(), chatID, messageID, *req.ReplyID)
	if err != nil {
		respondServiceError(c, err, "Failed to link reply")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

func (h *recordHandler) undo(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	record, err := h.historyService.Undo(c.Request.Context(), chatID)
	if err != nil {
		respondServiceError(c, err, "Failed to undo")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

func (h *recordHandler) redo(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	record, err := h.historyService.Redo(c.Request.Context(), chatID)
	if err != nil {
		respondServiceError(c, err, "Failed to redo")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

func (h *recordHandler) omitAll(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	changed, err := h.historyService.OmitAll(c.Request.Context(), chatID)
	if err != nil {
		respondServiceError(c, err, "Failed to omit records")
		return
	}
	c.JSON(http.StatusOK, dto.ToggleCountResponse{Changed: changed})
}

func (h *recordHandler) restoreAll(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}

	changed, err := h.historyService.RestoreAll(c.Request.Context(), chatID)
	if err != nil {
		respondServiceError(c, err, "Failed to restore records")
		return
	}
	c.JSON(http.StatusOK, dto.ToggleCountResponse{Changed: changed})
}

func (h *recordHandler) setRecordActive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID format"})
		return
	}
	var req dto.SetRecordActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetRecordActive", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	record, err := h.historyService.SetRecordActive(c.Request.Context(), chatID, recordID, *req.Active)
	if err != nil {
		respondServiceError(c, err, "Failed to toggle record")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

func (h *recordHandler) listRecords(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	records, err := h.historyService.ListHistory(c.Request.Context(), chatID, params.From)
	if err != nil {
		respondServiceError(c, err, "Failed to list records")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRecordsResponse(records))
}

func messageIDParam(c *gin.Context) (int64, bool) {
	messageID, err := strconv.ParseInt(c.Param("messageID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID format"})
		return 0, false
	}
	return messageID, true
}
