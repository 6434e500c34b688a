package services

import (
	"context"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// HistorySvcFacade drives the shared undo stack over the transaction log.
// Records are never deleted here; toggles flip the active flag and every
// balance computed afterwards reflects the new set.
type HistorySvcFacade interface {
	// Undo deactivates the most recent active record and returns it.
	Undo(ctx context.Context, chatID int64) (*domain.Record, error)

	// Redo reactivates the oldest inactive record and returns it.
	Redo(ctx context.Context, chatID int64) (*domain.Record, error)

	// SetRecordActive toggles one record explicitly.
	SetRecordActive(ctx context.Context, chatID int64, id int64, active bool) (*domain.Record, error)

	// OmitAll deactivates every active record, best effort, and returns
	// the number of records actually flipped.
	OmitAll(ctx context.Context, chatID int64) (int, error)

	// RestoreAll reactivates every inactive record, best effort, and
	// returns the number of records actually flipped.
	RestoreAll(ctx context.Context, chatID int64) (int, error)

	// ListHistory pages records ordered by id, starting at from
	// (0 means the last page).
	ListHistory(ctx context.Context, chatID int64, from int64) ([]domain.Record, error)
}
