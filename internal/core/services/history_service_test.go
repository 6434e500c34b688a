package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/kassabot/kassa_backend/internal/apperrors"
	"github.com/kassabot/kassa_backend/internal/core/domain"
	portssvc "github.com/kassabot/kassa_backend/internal/core/ports/services"
	"github.com/kassabot/kassa_backend/internal/core/services"
)

// historyStore is a stateful stand-in for the record repository: a slice of
// records whose active flags the service toggles through the mocked calls.
type historyStore struct {
	records []domain.Record
}

func (s *historyStore) bind(recordRepo *MockRecordRepository) {
	recordRepo.FindEdgeRecordFn = func(_ context.Context, _ int64, active bool, latest bool) (*domain.Record, error) {
		var edge *domain.Record
		for i := range s.records {
			rec := &s.records[i]
			if rec.Active != active {
				continue
			}
			if edge == nil || (latest && rec.ID > edge.ID) || (!latest && rec.ID < edge.ID) {
				edge = rec
			}
		}
		if edge == nil {
			return nil, nil
		}
		found := *edge
		return &found, nil
	}
	recordRepo.FindLastRecordFn = func(_ context.Context, _ int64) (*domain.Record, error) {
		var last *domain.Record
		for i := range s.records {
			if last == nil || s.records[i].ID > last.ID {
				last = &s.records[i]
			}
		}
		if last == nil {
			return nil, nil
		}
		found := *last
		return &found, nil
	}
	recordRepo.FindRecordByIDFn = func(_ context.Context, _ int64, id int64) (*domain.Record, error) {
		for i := range s.records {
			if s.records[i].ID == id {
				found := s.records[i]
				return &found, nil
			}
		}
		return nil, nil
	}
	recordRepo.FindRecordIDsFn = func(_ context.Context, _ int64, active bool) ([]int64, error) {
		var ids []int64
		for _, rec := range s.records {
			if rec.Active == active {
				ids = append(ids, rec.ID)
			}
		}
		return ids, nil
	}
	recordRepo.UpdateRecordActiveFn = func(_ context.Context, _ int64, id int64, active bool) (*domain.Record, error) {
		for i := range s.records {
			if s.records[i].ID == id {
				s.records[i].Active = active
				updated := s.records[i]
				return &updated, nil
			}
		}
		return nil, apperrors.ErrNotFound
	}
	recordRepo.ListRecordsFn = func(_ context.Context, _ int64, from int64, limit int) ([]domain.Record, error) {
		var out []domain.Record
		for _, rec := range s.records {
			if rec.ID >= from && len(out) < limit {
				out = append(out, rec)
			}
		}
		return out, nil
	}
}

func (s *historyStore) activeIDs() []int64 {
	var ids []int64
	for _, rec := range s.records {
		if rec.Active {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}

type HistoryServiceTestSuite struct {
	suite.Suite
	recordRepo *MockRecordRepository
	service    portssvc.HistorySvcFacade
}

func (suite *HistoryServiceTestSuite) SetupTest() {
	suite.recordRepo = new(MockRecordRepository)
	suite.service = services.NewHistoryService(suite.recordRepo)
}

func (suite *HistoryServiceTestSuite) newStore(states ...bool) *historyStore {
	store := &historyStore{}
	for i, active := range states {
		store.records = append(store.records, domain.Record{
			ChatID: testChatID,
			ID:     int64(i + 1),
			Amount: 100,
			Active: active,
		})
	}
	store.bind(suite.recordRepo)
	return store
}

func (suite *HistoryServiceTestSuite) TestUndo_DeactivatesMostRecentActive() {
	store := suite.newStore(true, true, false)

	undone, err := suite.service.Undo(context.Background(), testChatID)
	suite.Require().NoError(err)
	suite.Equal(int64(2), undone.ID)
	suite.False(undone.Active)
	suite.Equal([]int64{1}, store.activeIDs())
}

func (suite *HistoryServiceTestSuite) TestUndo_NothingLeft() {
	suite.newStore(false, false)

	_, err := suite.service.Undo(context.Background(), testChatID)
	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrRejected))
}

func (suite *HistoryServiceTestSuite) TestRedo_ReactivatesOldestInactive() {
	store := suite.newStore(true, false, false)

	redone, err := suite.service.Redo(context.Background(), testChatID)
	suite.Require().NoError(err)
	suite.Equal(int64(2), redone.ID)
	suite.True(redone.Active)
	suite.Equal([]int64{1, 2}, store.activeIDs())
}

func (suite *HistoryServiceTestSuite) TestRedo_NothingPending() {
	suite.newStore(true, true)

	_, err := suite.service.Redo(context.Background(), testChatID)
	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrRejected))
}

func (suite *HistoryServiceTestSuite) TestUndoRedo_AreInverses() {
	store := suite.newStore(true, true, true)
	before := store.activeIDs()

	_, err := suite.service.Undo(context.Background(), testChatID)
	suite.Require().NoError(err)
	_, err = suite.service.Redo(context.Background(), testChatID)
	suite.Require().NoError(err)

	suite.Equal(before, store.activeIDs())
}

func (suite *HistoryServiceTestSuite) TestOmitAll_IsIdempotent() {
	store := suite.newStore(true, true, true)

	changed, err := suite.service.OmitAll(context.Background(), testChatID)
	suite.Require().NoError(err)
	suite.Equal(3, changed)
	suite.Empty(store.activeIDs())

	changed, err = suite.service.OmitAll(context.Background(), testChatID)
	suite.Require().NoError(err)
	suite.Equal(0, changed)
}

func (suite *HistoryServiceTestSuite) TestRestoreAll_CountsOnlySuccessfulToggles() {
	suite.newStore(false, false, false)
	// One record fails to toggle; the rest must still go through.
	inner := suite.recordRepo.UpdateRecordActiveFn
	suite.recordRepo.UpdateRecordActiveFn = func(ctx context.Context, chatID int64, id int64, active bool) (*domain.Record, error) {
		if id == 2 {
			return nil, errors.New("connection reset")
		}
		return inner(ctx, chatID, id, active)
	}

	changed, err := suite.service.RestoreAll(context.Background(), testChatID)
	suite.Require().NoError(err)
	suite.Equal(2, changed)
}

func (suite *HistoryServiceTestSuite) TestSetRecordActive_UnknownRecord() {
	suite.newStore(true)

	_, err := suite.service.SetRecordActive(context.Background(), testChatID, 99, false)
	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func (suite *HistoryServiceTestSuite) TestListHistory_DefaultsToLastPage() {
	store := &historyStore{}
	for id := int64(1); id <= 25; id++ {
		store.records = append(store.records, domain.Record{ChatID: testChatID, ID: id, Amount: 100, Active: true})
	}
	store.bind(suite.recordRepo)

	records, err := suite.service.ListHistory(context.Background(), testChatID, 0)
	suite.Require().NoError(err)
	suite.Require().Len(records, 10)
	suite.Equal(int64(16), records[0].ID)
	suite.Equal(int64(25), records[len(records)-1].ID)
}

func (suite *HistoryServiceTestSuite) TestListHistory_EmptyLedger() {
	suite.newStore()

	records, err := suite.service.ListHistory(context.Background(), testChatID, 0)
	suite.Require().NoError(err)
	suite.Empty(records)
}

func TestHistoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryServiceTestSuite))
}
