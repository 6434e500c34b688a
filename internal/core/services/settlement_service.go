package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/kassabot/kassa_backend/internal/apperrors"
	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// memberOrders carries one member's net claim from undirected activity:
// negative when the member benefits from donorless orders, positive when
// the member funds the pool through recipientless pays.
type memberOrders struct {
	domain.MemberBalance
	orders         float64
	ordersUnfrozen float64
}

// ResolveDebts decomposes the principal's net position into per-counterparty
// debts. Direct legs between the pair are summed as in ComputeBalances;
// donorless orders are settled against the pool of payers proportionally to
// each payer's contribution, capped at the total demand, so a member who
// only partially funds the pool is charged only a pro-rata slice of any one
// claim on it.
func (s *balanceService) ResolveDebts(ctx context.Context, chatID int64, principalAccount string) (*domain.DebtBreakdown, error) {
	members, err := s.ComputeBalances(ctx, chatID)
	if err != nil {
		return nil, err
	}

	var principal *domain.MemberBalance
	for i := range members {
		if members[i].Account == principalAccount {
			principal = &members[i]
			break
		}
	}
	if principal == nil {
		// The caller guarantees the principal is a current member, so the
		// registry and the ledger disagree.
		return nil, fmt.Errorf("principal %s missing from computed balances: %w", principalAccount, apperrors.ErrInconsistent)
	}

	donorIn, err := s.recordRepo.FindRecordsByDonor(ctx, chatID, principalAccount, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load principal donor records: %w", err)
	}
	recipientIn, err := s.recordRepo.FindRecordsByRecipient(ctx, chatID, principalAccount, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load principal recipient records: %w", err)
	}
	withoutDonor, err := s.recordRepo.FindDonorlessRecords(ctx, chatID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load donorless records: %w", err)
	}
	withoutRecipients, err := s.recordRepo.FindRecipientlessRecords(ctx, chatID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipientless records: %w", err)
	}

	// Undirected-order book: per member net claim, plus aggregate demand
	// (totalOrders, sum of negatives) and supply (totalPays, sum of
	// positives), in raw and freeze-adjusted variants.
	var totalOrders, totalPays float64
	var totalOrdersUnfrozen, totalPaysUnfrozen float64
	book := make([]memberOrders, 0, len(members))
	for _, member := range members {
		entry := memberOrders{MemberBalance: member}
		for _, rec := range withoutDonor {
			if !rec.HasRecipient(member.Account) {
				continue
			}
			entry.orders -= rec.Share()
			entry.ordersUnfrozen -= rec.UnfrozenShare()
		}
		for _, rec := range withoutRecipients {
			if rec.DonorAccount == nil || *rec.DonorAccount != member.Account {
				continue
			}
			entry.orders += float64(rec.Amount)
			entry.ordersUnfrozen += float64(rec.Amount)
		}
		if entry.orders < 0 {
			totalOrders += entry.orders
		} else if entry.orders > 0 {
			totalPays += entry.orders
		}
		if entry.ordersUnfrozen < 0 {
			totalOrdersUnfrozen += entry.ordersUnfrozen
		} else if entry.ordersUnfrozen > 0 {
			totalPaysUnfrozen += entry.ordersUnfrozen
		}
		book = append(book, entry)
	}

	// Pull the principal out of the book. Its claim on the pool is capped
	// at total demand: nobody is asked to cover more than what is owed.
	var principalOrders, principalPaypart float64
	var principalOrdersUnfrozen, principalPaypartUnfrozen float64
	others := book[:0]
	for _, entry := range book {
		if entry.Account != principalAccount {
			others = append(others, entry)
			continue
		}
		principalOrders = capToTotal(entry.orders, totalOrders)
		principalPaypart = safeDiv(entry.orders, totalPays)
		principalOrdersUnfrozen = capToTotal(entry.ordersUnfrozen, totalOrdersUnfrozen)
		principalPaypartUnfrozen = safeDiv(entry.ordersUnfrozen, totalPaysUnfrozen)
	}

	donorsDebtors := make([]domain.DebtorEntry, 0, len(others))
	for _, other := range others {
		var debit, debitUnfrozen float64

		// Direct legs: the other member paid for the principal.
		for _, rec := range recipientIn {
			if rec.DonorAccount == nil || *rec.DonorAccount != other.Account {
				continue
			}
			debit += rec.Share()
			debitUnfrozen += recipientLegUnfrozen(principal.Member, rec)
		}
		// Direct legs: the principal paid for the other member.
		for _, rec := range donorIn {
			if !rec.HasRecipient(other.Account) {
				continue
			}
			debit -= rec.Share()
			if other.Active && rec.RecipientsQuantity > 0 {
				debitUnfrozen -= rec.UnfrozenShare()
			} else {
				debitUnfrozen -= rec.Share()
			}
		}

		// Undirected-order apportionment. The unfrozen adjustment uses the
		// freeze-adjusted figures but branches on the raw signs; that
		// asymmetry is the reference behavior.
		memberDebit := capToTotal(other.orders, totalOrders)
		orderDebit := safeDiv(memberDebit, totalOrders) * principalOrders
		if memberDebit > 0 && principalOrders < 0 {
			debit += orderDebit * safeDiv(other.orders, totalPays)
		} else if memberDebit < 0 && principalOrders > 0 {
			debit -= orderDebit * principalPaypart
		}

		memberDebitUnfrozen := capToTotal(other.ordersUnfrozen, totalOrdersUnfrozen)
		orderDebitUnfrozen := safeDiv(memberDebitUnfrozen, totalOrdersUnfrozen) * principalOrdersUnfrozen
		if memberDebit > 0 && principalOrders < 0 {
			debitUnfrozen += orderDebitUnfrozen * safeDiv(other.ordersUnfrozen, totalPaysUnfrozen)
		} else if memberDebit < 0 && principalOrders > 0 {
			debitUnfrozen -= orderDebitUnfrozen * principalPaypartUnfrozen
		}

		entry := domain.DebtorEntry{
			Member:        other.Member,
			Debit:         truncToMajor(debit),
			DebitUnfrozen: truncToMajor(debitUnfrozen),
		}
		if entry.Debit != 0 {
			donorsDebtors = append(donorsDebtors, entry)
		}
	}

	s.LogDebug(ctx, "Debts resolved",
		slog.Int64("chat_id", chatID),
		slog.String("principal", principalAccount),
		slog.Int("counterparties", len(donorsDebtors)))
	return &domain.DebtBreakdown{
		PrincipalDebt: principal.TotalSum,
		PrincipalPart: principal.UnfrozenSum,
		DonorsDebtors: donorsDebtors,
	}, nil
}

// capToTotal limits a member's claim to the aggregate on the other side of
// the book, keeping the sign.
func capToTotal(value, total float64) float64 {
	return sign(value) * math.Min(math.Abs(value), math.Abs(total))
}

// safeDiv divides, treating an empty pool as a zero contribution rather
// than letting a NaN poison the breakdown.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
