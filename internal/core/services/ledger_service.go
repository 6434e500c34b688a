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

// ledgerService creates transaction records. Recipient sets are resolved
// against the active members of the chat; the id slot is allocated by the
// repository inside the insert transaction.
type ledgerService struct {
	BaseService
	registry   portssvc.RegistrySvcFacade
	recordRepo portsrepo.RecordRepositoryFacade
}

// NewLedgerService creates a new ledger command service.
func NewLedgerService(registry portssvc.RegistrySvcFacade, recordRepo portsrepo.RecordRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		registry:   registry,
		recordRepo: recordRepo,
	}
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) RecordOrder(ctx context.Context, chatID int64, recipients []string, amount int64, messageID *int64) (*domain.Record, error) {
	return s.createRecord(ctx, chatID, domain.Order, "", recipients, amount, messageID)
}

func (s *ledgerService) RecordPay(ctx context.Context, chatID int64, donor string, amount int64, messageID *int64) (*domain.Record, error) {
	return s.createRecord(ctx, chatID, domain.Pay, donor, nil, amount, messageID)
}

func (s *ledgerService) RecordBuy(ctx context.Context, chatID int64, donor string, recipients []string, amount int64, messageID *int64) (*domain.Record, error) {
	return s.createRecord(ctx, chatID, domain.Buy, donor, recipients, amount, messageID)
}

func (s *ledgerService) RecordGive(ctx context.Context, chatID int64, donor string, recipients []string, amount int64, messageID *int64) (*domain.Record, error) {
	return s.createRecord(ctx, chatID, domain.Give, donor, recipients, amount, messageID)
}

func (s *ledgerService) createRecord(ctx context.Context, chatID int64, kind domain.RecordKind, donor string, recipients []string, amount int64, messageID *int64) (*domain.Record, error) {
	record, err := s.buildRecord(ctx, chatID, kind, donor, recipients, amount)
	if err != nil {
		return nil, err
	}
	record.MessageID = messageID

	created, err := s.recordRepo.CreateRecord(ctx, *record)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	s.LogInfo(ctx, "Record created",
		slog.Int64("chat_id", chatID),
		slog.Int64("record_id", created.ID),
		slog.String("kind", string(kind)),
		slog.Int64("amount", created.Amount))
	return created, nil
}

// buildRecord resolves the donor and recipient accounts against the active
// members and applies the per-operation recipient rules.
func (s *ledgerService) buildRecord(ctx context.Context, chatID int64, kind domain.RecordKind, donor string, recipients []string, amount int64) (*domain.Record, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount is missing or not positive: %w", apperrors.ErrRejected)
	}

	active := true
	members, err := s.registry.ListMembers(ctx, chatID, &active)
	if err != nil {
		return nil, fmt.Errorf("failed to list active members: %w", err)
	}

	var donorMember *domain.Member
	if kind != domain.Order {
		donorMember, err = resolveMember(members, donor)
		if err != nil {
			return nil, err
		}
	} else if donor != "" {
		return nil, fmt.Errorf("operation takes no principal: %w", apperrors.ErrRejected)
	}

	addressees, err := resolveMembers(members, recipients)
	if err != nil {
		return nil, err
	}

	var resolved []domain.Member
	switch kind {
	case domain.Order:
		resolved = addressees
		if len(resolved) == 0 {
			resolved = members
		}
	case domain.Pay:
		if len(addressees) != 0 {
			return nil, fmt.Errorf("operation takes no addressees: %w", apperrors.ErrRejected)
		}
	case domain.Buy:
		resolved = addressees
		if len(resolved) == 0 {
			resolved = everyoneBut(members, donorMember.Account)
		} else if containsAccount(resolved, donorMember.Account) {
			return nil, fmt.Errorf("principal cannot be an addressee: %w", apperrors.ErrRejected)
		}
		resolved = append(resolved, *donorMember)
	case domain.Give:
		if len(addressees) == 0 {
			return nil, fmt.Errorf("an addressee is required: %w", apperrors.ErrRejected)
		}
		if containsAccount(addressees, donorMember.Account) {
			return nil, fmt.Errorf("principal cannot be an addressee: %w", apperrors.ErrRejected)
		}
		resolved = addressees
	}

	record := domain.Record{
		ChatID:             chatID,
		HasDonor:           donorMember != nil,
		Recipients:         toRecipients(resolved),
		RecipientsQuantity: len(resolved),
		Amount:             amount,
		Active:             true,
	}
	if donorMember != nil {
		record.DonorAccount = &donorMember.Account
		record.DonorActive = donorMember.Active
	}
	return &record, nil
}

func (s *ledgerService) AmendRecord(ctx context.Context, chatID int64, messageID int64, kind domain.RecordKind, donor string, recipients []string, amount int64) (*domain.Record, error) {
	existing, err := s.recordRepo.FindRecordByMessageID(ctx, chatID, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to find record for message %d: %w", messageID, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("no record for message %d: %w", messageID, apperrors.ErrNotFound)
	}

	record, err := s.buildRecord(ctx, chatID, kind, donor, recipients, amount)
	if err != nil {
		return nil, err
	}
	record.ID = existing.ID
	record.MessageID = existing.MessageID
	record.ReplyID = existing.ReplyID

	replaced, err := s.recordRepo.ReplaceRecord(ctx, *record)
	if err != nil {
		return nil, fmt.Errorf("failed to replace record %d: %w", existing.ID, err)
	}
	s.LogInfo(ctx, "Record amended",
		slog.Int64("chat_id", chatID),
		slog.Int64("record_id", replaced.ID),
		slog.String("kind", string(kind)))
	return replaced, nil
}

func (s *ledgerService) OmitByMessage(ctx context.Context, chatID int64, messageID int64) (*domain.Record, error) {
	existing, err := s.recordRepo.FindRecordByMessageID(ctx, chatID, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to find record for message %d: %w", messageID, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("no record for message %d: %w", messageID, apperrors.ErrNotFound)
	}
	updated, err := s.recordRepo.UpdateRecordActive(ctx, chatID, existing.ID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to omit record %d: %w", existing.ID, err)
	}
	return updated, nil
}

func (s *ledgerService) LinkReply(ctx context.Context, chatID int64, messageID int64, replyID int64) (*domain.Record, error) {
	existing, err := s.recordRepo.FindRecordByMessageID(ctx, chatID, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to find record for message %d: %w", messageID, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("no record for message %d: %w", messageID, apperrors.ErrNotFound)
	}
	if err := s.recordRepo.UpdateRecordReply(ctx, chatID, existing.ID, replyID); err != nil {
		return nil, fmt.Errorf("failed to link reply to record %d: %w", existing.ID, err)
	}
	existing.ReplyID = &replyID
	return existing, nil
}

func resolveMember(members []domain.Member, account string) (*domain.Member, error) {
	if account == "" {
		return nil, fmt.Errorf("principal is missing: %w", apperrors.ErrRejected)
	}
	for i := range members {
		if members[i].Account == account {
			return &members[i], nil
		}
	}
	return nil, fmt.Errorf("member %s not found: %w", account, apperrors.ErrRejected)
}

func resolveMembers(members []domain.Member, accounts []string) ([]domain.Member, error) {
	resolved := make([]domain.Member, 0, len(accounts))
	for _, account := range accounts {
		member, err := resolveMember(members, account)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *member)
	}
	return resolved, nil
}

func everyoneBut(members []domain.Member, account string) []domain.Member {
	rest := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if m.Account != account {
			rest = append(rest, m)
		}
	}
	return rest
}

func containsAccount(members []domain.Member, account string) bool {
	for _, m := range members {
		if m.Account == account {
			return true
		}
	}
	return false
}

func toRecipients(members []domain.Member) []domain.Recipient {
	recipients := make([]domain.Recipient, len(members))
	for i, m := range members {
		recipients[i] = domain.Recipient{Account: m.Account, Active: m.Active}
	}
	return recipients
}
