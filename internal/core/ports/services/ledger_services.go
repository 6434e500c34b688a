package services

import (
	"context"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// LedgerSvcFacade creates transaction records. Amounts are integer minor
// units. Recipient-set rules per operation are enforced here; violations
// come back wrapped in apperrors.ErrRejected with a user-facing message.
type LedgerSvcFacade interface {
	// RecordOrder creates a shared expense with no designated payer.
	// Empty recipients means every active member.
	RecordOrder(ctx context.Context, chatID int64, recipients []string, amount int64, messageID *int64) (*domain.Record, error)

	// RecordPay creates a bare deposit by the donor, with no recipients.
	RecordPay(ctx context.Context, chatID int64, donor string, amount int64, messageID *int64) (*domain.Record, error)

	// RecordBuy creates a reimbursed purchase: the donor paid and shares
	// the cost with the recipients (every other active member when none
	// are named). The donor joins the recipient set.
	RecordBuy(ctx context.Context, chatID int64, donor string, recipients []string, amount int64, messageID *int64) (*domain.Record, error)

	// RecordGive creates a direct transfer from the donor to the named
	// recipients, which must not include the donor.
	RecordGive(ctx context.Context, chatID int64, donor string, recipients []string, amount int64, messageID *int64) (*domain.Record, error)

	// AmendRecord replaces the record created from messageID after the
	// source message was edited, keeping the original id slot.
	AmendRecord(ctx context.Context, chatID int64, messageID int64, kind domain.RecordKind, donor string, recipients []string, amount int64) (*domain.Record, error)

	// OmitByMessage deactivates the record created from messageID, used
	// when the edit is no longer a transactional command.
	OmitByMessage(ctx context.Context, chatID int64, messageID int64) (*domain.Record, error)

	// LinkReply attaches the reply message id to the record created from
	// messageID, once the client has posted its confirmation message.
	LinkReply(ctx context.Context, chatID int64, messageID int64, replyID int64) (*domain.Record, error)
}
