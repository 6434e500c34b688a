package dto

import (
	"github.com/shopspring/decimal"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

var minorPerMajor = decimal.NewFromInt(100)

// CreateRecordRequest defines the data needed to record a transaction.
// Amount is in major currency units; the fractional part beyond two
// decimals is truncated at this boundary.
type CreateRecordRequest struct {
	Kind       string          `json:"kind" binding:"required,oneof=order pay buy give"`
	Donor      string          `json:"donor"`
	Recipients []string        `json:"recipients"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	MessageID  *int64          `json:"messageID"`
}

// AmountMinor converts the decimal major-unit amount to integer minor units.
func (r CreateRecordRequest) AmountMinor() int64 {
	return r.Amount.Mul(minorPerMajor).IntPart()
}

// AmendRecordRequest re-issues an edited command against its original record.
type AmendRecordRequest struct {
	Kind       string          `json:"kind" binding:"required,oneof=order pay buy give"`
	Donor      string          `json:"donor"`
	Recipients []string        `json:"recipients"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// AmountMinor converts the decimal major-unit amount to integer minor units.
func (r AmendRecordRequest) AmountMinor() int64 {
	return r.Amount.Mul(minorPerMajor).IntPart()
}

// SetRecordActiveRequest toggles a record's active flag explicitly.
// The pointer distinguishes an omitted field from false.
type SetRecordActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetRecordReplyRequest attaches the client's reply message id to a record.
type SetRecordReplyRequest struct {
	ReplyID *int64 `json:"replyID" binding:"required"`
}

// ListRecordsParams defines query parameters for paging history.
type ListRecordsParams struct {
	From int64 `form:"from,default=0"`
}

// RecordResponse defines the data returned for a record. Amount and
// LiveAmount are major-unit decimals.
type RecordResponse struct {
	ID         int64           `json:"id"`
	Kind       string          `json:"kind"`
	Donor      *string         `json:"donor,omitempty"`
	Recipients []string        `json:"recipients"`
	Amount     decimal.Decimal `json:"amount"`
	LiveAmount decimal.Decimal `json:"liveAmount"`
	Active     bool            `json:"active"`
	MessageID  *int64          `json:"messageID,omitempty"`
	ReplyID    *int64          `json:"replyID,omitempty"`
}

// ToggleCountResponse reports how many records a bulk toggle flipped.
type ToggleCountResponse struct {
	Changed int `json:"changed"`
}

// ListRecordsResponse wraps one history page.
type ListRecordsResponse struct {
	Records []RecordResponse `json:"records"`
}

// ToRecordResponse converts a domain.Record to RecordResponse DTO
func ToRecordResponse(record *domain.Record) RecordResponse {
	recipients := make([]string, len(record.Recipients))
	for i, recipient := range record.Recipients {
		recipients[i] = recipient.Account
	}
	return RecordResponse{
		ID:         record.ID,
		Kind:       string(record.Kind()),
		Donor:      record.DonorAccount,
		Recipients: recipients,
		Amount:     decimal.NewFromInt(record.Amount).Div(minorPerMajor),
		LiveAmount: decimal.NewFromFloat(record.LiveAmount()).Div(minorPerMajor).Truncate(2),
		Active:     record.Active,
		MessageID:  record.MessageID,
		ReplyID:    record.ReplyID,
	}
}

// ToListRecordsResponse converts a slice of domain.Record to one history page
func ToListRecordsResponse(records []domain.Record) ListRecordsResponse {
	responses := make([]RecordResponse, len(records))
	for i, record := range records {
		responses[i] = ToRecordResponse(&record)
	}
	return ListRecordsResponse{Records: responses}
}
