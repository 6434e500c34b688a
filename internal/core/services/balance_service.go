package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/kassabot/kassa_backend/internal/core/domain"
	portsrepo "github.com/kassabot/kassa_backend/internal/core/ports/repositories"
	portssvc "github.com/kassabot/kassa_backend/internal/core/ports/services"
)

// balanceService implements the balance engine: per-member net totals in a
// freeze-agnostic and a freeze-adjusted variant. It holds no state and no
// cache; every call is a pure function of the current store snapshot.
type balanceService struct {
	BaseService
	memberRepo portsrepo.MemberRepositoryFacade
	recordRepo portsrepo.RecordRepositoryFacade
}

// NewBalanceService creates the balance engine over the given repositories.
// The returned facade also carries the settlement resolver, which builds on
// the same aggregation (see settlement_service.go).
func NewBalanceService(memberRepo portsrepo.MemberRepositoryFacade, recordRepo portsrepo.RecordRepositoryFacade) portssvc.BalanceSvcFacade {
	return &balanceService{
		memberRepo: memberRepo,
		recordRepo: recordRepo,
	}
}

// Ensure balanceService implements the BalanceSvcFacade interface
var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// ComputeBalances returns one balance row per member, frozen members
// included. Sums are accumulated in float64 minor units and truncated
// toward zero to major units once, at the very end, so shares of one
// record stay additively consistent across members.
func (s *balanceService) ComputeBalances(ctx context.Context, chatID int64) ([]domain.MemberBalance, error) {
	members, err := s.memberRepo.FindMembers(ctx, chatID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	balances := make([]domain.MemberBalance, 0, len(members))
	for _, member := range members {
		donorIn, err := s.recordRepo.FindRecordsByDonor(ctx, chatID, member.Account, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load donor records for %s: %w", member.Account, err)
		}
		recipientIn, err := s.recordRepo.FindRecordsByRecipient(ctx, chatID, member.Account, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load recipient records for %s: %w", member.Account, err)
		}

		var total, unfrozen float64
		for _, rec := range donorIn {
			// Donor-side credit always counts at face value; freeze
			// semantics only reshape the recipient-side apportionment.
			total += float64(rec.Amount)
			unfrozen += float64(rec.Amount)
		}
		for _, rec := range recipientIn {
			total -= rec.Share()
			unfrozen -= recipientLegUnfrozen(member, rec)
		}

		balances = append(balances, domain.MemberBalance{
			Member:      member,
			TotalSum:    truncToMajor(total),
			UnfrozenSum: truncToMajor(unfrozen),
		})
	}

	s.LogDebug(ctx, "Balances computed",
		slog.Int64("chat_id", chatID),
		slog.Int("member_count", len(balances)))
	return balances, nil
}

// recipientLegUnfrozen is the freeze-adjusted debt the member carries as a
// recipient of one record. Orders without a donor and records with an
// active donor are redistributed across the still-active recipients, so a
// frozen member carries nothing; a record whose donor is frozen and that
// does have recipients drops out of the frozen aggregate entirely.
func recipientLegUnfrozen(member domain.Member, rec domain.Record) float64 {
	if !rec.HasDonor || (rec.DonorActive && rec.RecipientsQuantity > 0) {
		if !member.Active {
			return 0
		}
		return rec.UnfrozenShare()
	}
	return 0
}

// truncToMajor converts a minor-unit sum to major units, truncating toward
// zero. Truncation, not rounding: the presented figures must reproduce the
// original ledger exactly.
func truncToMajor(minor float64) int64 {
	return int64(math.Trunc(minor / 100))
}
