package dto

import (
	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// BalanceResponse is one row of the balance report, in major units.
type BalanceResponse struct {
	Member      MemberResponse `json:"member"`
	TotalSum    int64          `json:"totalSum"`
	UnfrozenSum int64          `json:"unfrozenSum"`
}

// ListBalancesResponse wraps the balance report of a chat.
type ListBalancesResponse struct {
	Balances []BalanceResponse `json:"balances"`
}

// DebtorEntryResponse is one counterparty line of a settlement breakdown.
type DebtorEntryResponse struct {
	Member        MemberResponse `json:"member"`
	Debit         int64          `json:"debit"`
	DebitUnfrozen int64          `json:"debitUnfrozen"`
}

// DebtBreakdownResponse decomposes the principal's net position.
type DebtBreakdownResponse struct {
	PrincipalDebt int64                 `json:"principalDebt"`
	PrincipalPart int64                 `json:"principalPart"`
	DonorsDebtors []DebtorEntryResponse `json:"donorsDebtors"`
}

// ToListBalancesResponse converts the balance report to DTOs
func ToListBalancesResponse(balances []domain.MemberBalance) ListBalancesResponse {
	responses := make([]BalanceResponse, len(balances))
	for i, balance := range balances {
		responses[i] = BalanceResponse{
			Member:      ToMemberResponse(&balance.Member),
			TotalSum:    balance.TotalSum,
			UnfrozenSum: balance.UnfrozenSum,
		}
	}
	return ListBalancesResponse{Balances: responses}
}

// ToDebtBreakdownResponse converts a domain.DebtBreakdown to its DTO
func ToDebtBreakdownResponse(breakdown *domain.DebtBreakdown) DebtBreakdownResponse {
	entries := make([]DebtorEntryResponse, len(breakdown.DonorsDebtors))
	for i, entry := range breakdown.DonorsDebtors {
		entries[i] = DebtorEntryResponse{
			Member:        ToMemberResponse(&entry.Member),
			Debit:         entry.Debit,
			DebitUnfrozen: entry.DebitUnfrozen,
		}
	}
	return DebtBreakdownResponse{
		PrincipalDebt: breakdown.PrincipalDebt,
		PrincipalPart: breakdown.PrincipalPart,
		DonorsDebtors: entries,
	}
}
