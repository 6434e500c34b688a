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

const historyPageSize = 10

// historyService implements the shared undo stack over the transaction log.
// Undo always reverts the most recent active record, redo restores the
// oldest pending reversion: one linear discipline for the whole group, not
// per-user stacks.
type historyService struct {
	BaseService
	recordRepo portsrepo.RecordRepositoryFacade
}

// NewHistoryService creates a new history service over the record repository.
func NewHistoryService(recordRepo portsrepo.RecordRepositoryFacade) portssvc.HistorySvcFacade {
	return &historyService{recordRepo: recordRepo}
}

// Ensure historyService implements the HistorySvcFacade interface
var _ portssvc.HistorySvcFacade = (*historyService)(nil)

func (s *historyService) Undo(ctx context.Context, chatID int64) (*domain.Record, error) {
	latest, err := s.recordRepo.FindEdgeRecord(ctx, chatID, true, true)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest active record: %w", err)
	}
	if latest == nil {
		return nil, fmt.Errorf("no more records: %w", apperrors.ErrRejected)
	}
	updated, err := s.recordRepo.UpdateRecordActive(ctx, chatID, latest.ID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate record %d: %w", latest.ID, err)
	}
	s.LogInfo(ctx, "Record undone", slog.Int64("chat_id", chatID), slog.Int64("record_id", latest.ID))
	return updated, nil
}

func (s *historyService) Redo(ctx context.Context, chatID int64) (*domain.Record, error) {
	oldest, err := s.recordRepo.FindEdgeRecord(ctx, chatID, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to find oldest inactive record: %w", err)
	}
	if oldest == nil {
		return nil, fmt.Errorf("latest record reached: %w", apperrors.ErrRejected)
	}
	updated, err := s.recordRepo.UpdateRecordActive(ctx, chatID, oldest.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to reactivate record %d: %w", oldest.ID, err)
	}
	s.LogInfo(ctx, "Record redone", slog.Int64("chat_id", chatID), slog.Int64("record_id", oldest.ID))
	return updated, nil
}

func (s *historyService) SetRecordActive(ctx context.Context, chatID int64, id int64, active bool) (*domain.Record, error) {
	record, err := s.recordRepo.FindRecordByID(ctx, chatID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find record %d: %w", id, err)
	}
	if record == nil {
		return nil, fmt.Errorf("record %d: %w", id, apperrors.ErrNotFound)
	}
	updated, err := s.recordRepo.UpdateRecordActive(ctx, chatID, id, active)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle record %d: %w", id, err)
	}
	return updated, nil
}

func (s *historyService) OmitAll(ctx context.Context, chatID int64) (int, error) {
	return s.bulkToggle(ctx, chatID, false)
}

func (s *historyService) RestoreAll(ctx context.Context, chatID int64) (int, error) {
	return s.bulkToggle(ctx, chatID, true)
}

// bulkToggle flips every record currently in the opposite state, a record
// at a time. A failure on one record does not block the rest; the returned
// count reflects only the toggles that went through.
func (s *historyService) bulkToggle(ctx context.Context, chatID int64, active bool) (int, error) {
	ids, err := s.recordRepo.FindRecordIDs(ctx, chatID, !active)
	if err != nil {
		return 0, fmt.Errorf("failed to list records to toggle: %w", err)
	}

	toggled := 0
	for _, id := range ids {
		if _, err := s.recordRepo.UpdateRecordActive(ctx, chatID, id, active); err != nil {
			s.LogError(ctx, err, "Failed to toggle record during bulk operation",
				slog.Int64("chat_id", chatID),
				slog.Int64("record_id", id),
				slog.Bool("active", active))
			continue
		}
		toggled++
	}

	s.LogInfo(ctx, "Bulk toggle finished",
		slog.Int64("chat_id", chatID),
		slog.Bool("active", active),
		slog.Int("toggled", toggled),
		slog.Int("requested", len(ids)))
	return toggled, nil
}

func (s *historyService) ListHistory(ctx context.Context, chatID int64, from int64) ([]domain.Record, error) {
	if from <= 0 {
		last, err := s.recordRepo.FindLastRecord(ctx, chatID)
		if err != nil {
			return nil, fmt.Errorf("failed to find last record: %w", err)
		}
		if last == nil {
			return []domain.Record{}, nil
		}
		from = last.ID - historyPageSize + 1
		if from < 1 {
			from = 1
		}
	}
	records, err := s.recordRepo.ListRecords(ctx, chatID, from, historyPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}
