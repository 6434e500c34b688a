package services

import (
	"context"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// BalanceReporter computes per-member net positions.
type BalanceReporter interface {
	// ComputeBalances returns one row per member of the chat, active and
	// frozen alike, with net totals in major units. There is no persisted
	// running balance: every call re-scans the live transaction store.
	ComputeBalances(ctx context.Context, chatID int64) ([]domain.MemberBalance, error)
}

// SettlementResolver decomposes one member's net position into a
// per-counterparty debt/credit list.
type SettlementResolver interface {
	// ResolveDebts breaks the principal's position down against every
	// other member, proportionally apportioning undirected orders across
	// the members who fund the pool. The principal must be a current
	// member of the chat; a principal missing from the computed balances
	// is an invariant violation, not a user error.
	ResolveDebts(ctx context.Context, chatID int64, principalAccount string) (*domain.DebtBreakdown, error)
}

// BalanceSvcFacade combines the balance reporting interfaces.
type BalanceSvcFacade interface {
	BalanceReporter
	SettlementResolver
}
