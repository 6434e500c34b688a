package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// --- Mock MemberRepository (based on service usage) ---
type MockMemberRepository struct {
	mock.Mock
	FindMembersFn         func(ctx context.Context, chatID int64, active *bool) ([]domain.Member, error)
	FindMemberByAccountFn func(ctx context.Context, chatID int64, account string) (*domain.Member, error)
	SaveMemberFn          func(ctx context.Context, member domain.Member) error
	UpdateMemberActiveFn  func(ctx context.Context, chatID int64, account string, active bool) error
	UpdateMemberAccountFn func(ctx context.Context, chatID int64, oldAccount, newAccount string) error
	DeleteMemberFn        func(ctx context.Context, chatID int64, account string) error
	ResetMemberFn         func(ctx context.Context, chatID int64, account string) error
}

func (m *MockMemberRepository) FindMembers(ctx context.Context, chatID int64, active *bool) ([]domain.Member, error) {
	if m.FindMembersFn != nil {
		return m.FindMembersFn(ctx, chatID, active)
	}
	args := m.Called(ctx, chatID, active)
	var members []domain.Member
	if args.Get(0) != nil {
		members = args.Get(0).([]domain.Member)
	}
	return members, args.Error(1)
}

func (m *MockMemberRepository) FindMemberByAccount(ctx context.Context, chatID int64, account string) (*domain.Member, error) {
	if m.FindMemberByAccountFn != nil {
		return m.FindMemberByAccountFn(ctx, chatID, account)
	}
	args := m.Called(ctx, chatID, account)
	var member *domain.Member
	if args.Get(0) != nil {
		member = args.Get(0).(*domain.Member)
	}
	return member, args.Error(1)
}

func (m *MockMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	if m.SaveMemberFn != nil {
		return m.SaveMemberFn(ctx, member)
	}
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdateMemberActive(ctx context.Context, chatID int64, account string, active bool) error {
	if m.UpdateMemberActiveFn != nil {
		return m.UpdateMemberActiveFn(ctx, chatID, account, active)
	}
	args := m.Called(ctx, chatID, account, active)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdateMemberAccount(ctx context.Context, chatID int64, oldAccount, newAccount string) error {
	if m.UpdateMemberAccountFn != nil {
		return m.UpdateMemberAccountFn(ctx, chatID, oldAccount, newAccount)
	}
	args := m.Called(ctx, chatID, oldAccount, newAccount)
	return args.Error(0)
}

func (m *MockMemberRepository) DeleteMember(ctx context.Context, chatID int64, account string) error {
	if m.DeleteMemberFn != nil {
		return m.DeleteMemberFn(ctx, chatID, account)
	}
	args := m.Called(ctx, chatID, account)
	return args.Error(0)
}

func (m *MockMemberRepository) ResetMember(ctx context.Context, chatID int64, account string) error {
	if m.ResetMemberFn != nil {
		return m.ResetMemberFn(ctx, chatID, account)
	}
	args := m.Called(ctx, chatID, account)
	return args.Error(0)
}

// --- Mock RecordRepository (based on service usage) ---
type MockRecordRepository struct {
	mock.Mock
	FindRecordsByDonorFn      func(ctx context.Context, chatID int64, account string, active bool) ([]domain.Record, error)
	FindRecordsByRecipientFn  func(ctx context.Context, chatID int64, account string, active bool) ([]domain.Record, error)
	FindDonorlessRecordsFn    func(ctx context.Context, chatID int64, active bool) ([]domain.Record, error)
	FindRecipientlessRecordsFn func(ctx context.Context, chatID int64, active bool) ([]domain.Record, error)
	FindRecordByIDFn          func(ctx context.Context, chatID int64, id int64) (*domain.Record, error)
	FindRecordByMessageIDFn   func(ctx context.Context, chatID int64, messageID int64) (*domain.Record, error)
	FindEdgeRecordFn          func(ctx context.Context, chatID int64, active bool, latest bool) (*domain.Record, error)
	FindLastRecordFn          func(ctx context.Context, chatID int64) (*domain.Record, error)
	FindRecordIDsFn           func(ctx context.Context, chatID int64, active bool) ([]int64, error)
	ListRecordsFn             func(ctx context.Context, chatID int64, from int64, limit int) ([]domain.Record, error)
	CreateRecordFn            func(ctx context.Context, record domain.Record) (*domain.Record, error)
	ReplaceRecordFn           func(ctx context.Context, record domain.Record) (*domain.Record, error)
	UpdateRecordActiveFn      func(ctx context.Context, chatID int64, id int64, active bool) (*domain.Record, error)
	UpdateRecordReplyFn       func(ctx context.Context, chatID int64, id int64, replyID int64) error
}

func (m *MockRecordRepository) recordsCall(fn func() ([]domain.Record, error), call func() mock.Arguments) ([]domain.Record, error) {
	if fn != nil {
		return fn()
	}
	args := call()
	var records []domain.Record
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.Record)
	}
	return records, args.Error(1)
}

func (m *MockRecordRepository) recordCall(fn func() (*domain.Record, error), call func() mock.Arguments) (*domain.Record, error) {
	if fn != nil {
		return fn()
	}
	args := call()
	var record *domain.Record
	if args.Get(0) != nil {
		record = args.Get(0).(*domain.Record)
	}
	return record, args.Error(1)
}

func (m *MockRecordRepository) FindRecordsByDonor(ctx context.Context, chatID int64, account string, active bool) ([]domain.Record, error) {
	var fn func() ([]domain.Record, error)
	if m.FindRecordsByDonorFn != nil {
		fn = func() ([]domain.Record, error) { return m.FindRecordsByDonorFn(ctx, chatID, account, active) }
	}
	return m.recordsCall(fn, func() mock.Arguments { return m.Called(ctx, chatID, account, active) })
}

func (m *MockRecordRepository) FindRecordsByRecipient(ctx context.Context, chatID int64, account string, active bool) ([]domain.Record, error) {
	var fn func() ([]domain.Record, error)
	if m.FindRecordsByRecipientFn != nil {
		fn = func() ([]domain.Record, error) { return m.FindRecordsByRecipientFn(ctx, chatID, account, active) }
	}
	return m.recordsCall(fn, func() mock.Arguments { return m.Called(ctx, chatID, account, active) })
}

func (m *MockRecordRepository) FindDonorlessRecords(ctx context.Context, chatID int64, active bool) ([]domain.Record, error) {
	var fn func() ([]domain.Record, error)
	if m.FindDonorlessRecordsFn != nil {
		fn = func() ([]domain.Record, error) { return m.FindDonorlessRecordsFn(ctx, chatID, active) }
	}
	return m.recordsCall(fn, func() mock.Arguments { return m.Called(ctx, chatID, active) })
}

func (m *MockRecordRepository) FindRecipientlessRecords(ctx context.Context, chatID int64, active bool) ([]domain.Record, error) {
	var fn func() ([]domain.Record, error)
	if m.FindRecipientlessRecordsFn != nil {
		fn = func() ([]domain.Record, error) { return m.FindRecipientlessRecordsFn(ctx, chatID, active) }
	}
	return m.recordsCall(fn, func() mock.Arguments { return m.Called(ctx, chatID, active) })
}

func (m *MockRecordRepository) FindRecordByID(ctx context.Context, chatID int64, id int64) (*domain.Record, error) {
	var fn func() (*domain.Record, error)
	if m.FindRecordByIDFn != nil {
		fn = func() (*domain.Record, error) { return m.FindRecordByIDFn(ctx, chatID, id) }
	}
	return m.recordCall(fn, func() mock.Arguments { return m.Called(ctx, chatID, id) })
}

func (m *MockRecordRepository) FindRecordByMessageID(ctx context.Context, chatID int64, messageID int64) (*domain.Record, error) {
	var fn func() (*domain.Record, error)
	if m.FindRecordByMessageIDFn != nil {
		fn = func() (*domain.Record, error) { return m.FindRecordByMessageIDFn(ctx, chatID, messageID) }
	}
	return m.recordCall(fn, func() mock.Arguments { return m.Called(ctx, chatID, messageID) })
}

func (m *MockRecordRepository) FindEdgeRecord(ctx context.Context, chatID int64, active bool, latest bool) (*domain.Record, error) {
	var fn func() (*domain.Record, error)
	if m.FindEdgeRecordFn != nil {
		fn = func() (*domain.Record, error) { return m.FindEdgeRecordFn(ctx, chatID, active, latest) }
	}
	return m.recordCall(fn, func() mock.Arguments { return m.Called(ctx, chatID, active, latest) })
}

func (m *MockRecordRepository) FindLastRecord(ctx context.Context, chatID int64) (*domain.Record, error) {
	var fn func() (*domain.Record, error)
	if m.FindLastRecordFn != nil {
		fn = func() (*domain.Record, error) { return m.FindLastRecordFn(ctx, chatID) }
	}
	return m.recordCall(fn, func() mock.Arguments { return m.Called(ctx, chatID) })
}

func (m *MockRecordRepository) FindRecordIDs(ctx context.Context, chatID int64, active bool) ([]int64, error) {
	if m.FindRecordIDsFn != nil {
		return m.FindRecordIDsFn(ctx, chatID, active)
	}
	args := m.Called(ctx, chatID, active)
	var ids []int64
	if args.Get(0) != nil {
		ids = args.Get(0).([]int64)
	}
	return ids, args.Error(1)
}

func (m *MockRecordRepository) ListRecords(ctx context.Context, chatID int64, from int64, limit int) ([]domain.Record, error) {
	var fn func() ([]domain.Record, error)
	if m.ListRecordsFn != nil {
		fn = func() ([]domain.Record, error) { return m.ListRecordsFn(ctx, chatID, from, limit) }
	}
	return m.recordsCall(fn, func() mock.Arguments { return m.Called(ctx, chatID, from, limit) })
}

func (m *MockRecordRepository) CreateRecord(ctx context.Context, record domain.Record) (*domain.Record, error) {
	var fn func() (*domain.Record, error)
	if m.CreateRecordFn != nil {
		fn = func() (*domain.Record, error) { return m.CreateRecordFn(ctx, record) }
	}
	return m.recordCall(fn, func() mock.Arguments { return m.Called(ctx, record) })
}

func (m *MockRecordRepository) ReplaceRecord(ctx context.Context, record domain.Record) (*domain.Record, error) {
	var fn func() (*domain.Record, error)
	if m.ReplaceRecordFn != nil {
		fn = func() (*domain.Record, error) { return m.ReplaceRecordFn(ctx, record) }
	}
	return m.recordCall(fn, func() mock.Arguments { return m.Called(ctx, record) })
}

func (m *MockRecordRepository) UpdateRecordActive(ctx context.Context, chatID int64, id int64, active bool) (*domain.Record, error) {
	var fn func() (*domain.Record, error)
	if m.UpdateRecordActiveFn != nil {
		fn = func() (*domain.Record, error) { return m.UpdateRecordActiveFn(ctx, chatID, id, active) }
	}
	return m.recordCall(fn, func() mock.Arguments { return m.Called(ctx, chatID, id, active) })
}

func (m *MockRecordRepository) UpdateRecordReply(ctx context.Context, chatID int64, id int64, replyID int64) error {
	if m.UpdateRecordReplyFn != nil {
		return m.UpdateRecordReplyFn(ctx, chatID, id, replyID)
	}
	args := m.Called(ctx, chatID, id, replyID)
	return args.Error(0)
}

// --- Fake member cache ---
type fakeMemberCache struct {
	entries     map[int64][]domain.Member
	invalidated int
}

func newFakeMemberCache() *fakeMemberCache {
	return &fakeMemberCache{entries: make(map[int64][]domain.Member)}
}

func (c *fakeMemberCache) Get(chatID int64) ([]domain.Member, bool) {
	members, ok := c.entries[chatID]
	return members, ok
}

func (c *fakeMemberCache) Set(chatID int64, members []domain.Member) {
	c.entries[chatID] = members
}

func (c *fakeMemberCache) Del(chatID int64) {
	delete(c.entries, chatID)
	c.invalidated++
}

// --- In-memory ledger fixture shared by the engine tests ---

// ledgerFixture answers the aggregation queries of the record repository
// from a plain slice, so engine tests read like a ledger transcript.
type ledgerFixture struct {
	members []domain.Member
	records []domain.Record
}

func (f *ledgerFixture) donorIn(account string) []domain.Record {
	var out []domain.Record
	for _, rec := range f.records {
		if rec.Active && rec.DonorAccount != nil && *rec.DonorAccount == account {
			out = append(out, rec)
		}
	}
	return out
}

func (f *ledgerFixture) recipientIn(account string) []domain.Record {
	var out []domain.Record
	for _, rec := range f.records {
		if rec.Active && rec.HasRecipient(account) {
			out = append(out, rec)
		}
	}
	return out
}

func (f *ledgerFixture) donorless() []domain.Record {
	var out []domain.Record
	for _, rec := range f.records {
		if rec.Active && !rec.HasDonor {
			out = append(out, rec)
		}
	}
	return out
}

func (f *ledgerFixture) recipientless() []domain.Record {
	var out []domain.Record
	for _, rec := range f.records {
		if rec.Active && rec.RecipientsQuantity == 0 {
			out = append(out, rec)
		}
	}
	return out
}

// bind wires the fixture into the mocked repositories.
func (f *ledgerFixture) bind(memberRepo *MockMemberRepository, recordRepo *MockRecordRepository) {
	memberRepo.FindMembersFn = func(_ context.Context, _ int64, active *bool) ([]domain.Member, error) {
		if active == nil {
			return f.members, nil
		}
		var out []domain.Member
		for _, m := range f.members {
			if m.Active == *active {
				out = append(out, m)
			}
		}
		return out, nil
	}
	recordRepo.FindRecordsByDonorFn = func(_ context.Context, _ int64, account string, _ bool) ([]domain.Record, error) {
		return f.donorIn(account), nil
	}
	recordRepo.FindRecordsByRecipientFn = func(_ context.Context, _ int64, account string, _ bool) ([]domain.Record, error) {
		return f.recipientIn(account), nil
	}
	recordRepo.FindDonorlessRecordsFn = func(_ context.Context, _ int64, _ bool) ([]domain.Record, error) {
		return f.donorless(), nil
	}
	recordRepo.FindRecipientlessRecordsFn = func(_ context.Context, _ int64, _ bool) ([]domain.Record, error) {
		return f.recipientless(), nil
	}
}

// order builds a donorless record split across the given members.
func order(id int64, amount int64, recipients ...domain.Member) domain.Record {
	return domain.Record{
		ID:                 id,
		HasDonor:           false,
		Recipients:         membersToRecipients(recipients),
		RecipientsQuantity: len(recipients),
		Amount:             amount,
		Active:             true,
	}
}

// pay builds a bare deposit by the donor.
func pay(id int64, donor domain.Member, amount int64) domain.Record {
	return domain.Record{
		ID:           id,
		DonorAccount: &donor.Account,
		HasDonor:     true,
		DonorActive:  donor.Active,
		Amount:       amount,
		Active:       true,
	}
}

// give builds a direct transfer from the donor to the recipients.
func give(id int64, donor domain.Member, amount int64, recipients ...domain.Member) domain.Record {
	return domain.Record{
		ID:                 id,
		DonorAccount:       &donor.Account,
		HasDonor:           true,
		DonorActive:        donor.Active,
		Recipients:         membersToRecipients(recipients),
		RecipientsQuantity: len(recipients),
		Amount:             amount,
		Active:             true,
	}
}

func membersToRecipients(members []domain.Member) []domain.Recipient {
	recipients := make([]domain.Recipient, len(members))
	for i, m := range members {
		recipients[i] = domain.Recipient{Account: m.Account, Active: m.Active}
	}
	return recipients
}
