package repositories

import (
	"context"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// RecordReader defines the query shapes the balance engine consumes.
// Every call returns the full recipient projection (account + active flag)
// plus the donor's active flag, since the frozen-redistribution rules need
// both sides.
type RecordReader interface {
	// FindRecordsByDonor retrieves records where the account paid.
	FindRecordsByDonor(ctx context.Context, chatID int64, account string, active bool) ([]domain.Record, error)

	// FindRecordsByRecipient retrieves records where the account owes a share.
	FindRecordsByRecipient(ctx context.Context, chatID int64, account string, active bool) ([]domain.Record, error)

	// FindDonorlessRecords retrieves undirected orders (hasDonor = false).
	FindDonorlessRecords(ctx context.Context, chatID int64, active bool) ([]domain.Record, error)

	// FindRecipientlessRecords retrieves bare pays (recipientsQuantity = 0).
	FindRecipientlessRecords(ctx context.Context, chatID int64, active bool) ([]domain.Record, error)

	// FindRecordByID retrieves one record, or nil if absent.
	FindRecordByID(ctx context.Context, chatID int64, id int64) (*domain.Record, error)

	// FindRecordByMessageID retrieves the record created from a chat
	// message, for the edited-message correction path.
	FindRecordByMessageID(ctx context.Context, chatID int64, messageID int64) (*domain.Record, error)

	// FindEdgeRecord retrieves the highest-id record matching the active
	// flag when latest is true, otherwise the lowest-id one. Nil when no
	// record matches. This is the undo/redo cursor.
	FindEdgeRecord(ctx context.Context, chatID int64, active bool, latest bool) (*domain.Record, error)

	// FindLastRecord retrieves the highest-id record regardless of state,
	// or nil when the log is empty.
	FindLastRecord(ctx context.Context, chatID int64) (*domain.Record, error)

	// FindRecordIDs lists ids of records currently in the given state,
	// for bulk omit/restore.
	FindRecordIDs(ctx context.Context, chatID int64, active bool) ([]int64, error)

	// ListRecords pages records ordered by id, starting at from.
	ListRecords(ctx context.Context, chatID int64, from int64, limit int) ([]domain.Record, error)
}

// RecordWriter defines mutating operations on the transaction log.
type RecordWriter interface {
	// CreateRecord allocates the id slot one past the highest active id,
	// deletes any stale inactive record occupying it and inserts the new
	// record, all inside a single database transaction. It returns the
	// stored record.
	CreateRecord(ctx context.Context, record domain.Record) (*domain.Record, error)

	// ReplaceRecord physically replaces the record under its existing id,
	// used only to correct an edited message's stale duplicate.
	ReplaceRecord(ctx context.Context, record domain.Record) (*domain.Record, error)

	// UpdateRecordActive toggles the soft-undo flag of one record.
	UpdateRecordActive(ctx context.Context, chatID int64, id int64, active bool) (*domain.Record, error)

	// UpdateRecordReply attaches the reply message id after the fact.
	UpdateRecordReply(ctx context.Context, chatID int64, id int64, replyID int64) error
}

// RecordRepositoryFacade combines all record repository interfaces.
type RecordRepositoryFacade interface {
	RecordReader
	RecordWriter
}
