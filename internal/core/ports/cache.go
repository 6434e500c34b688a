package ports

import "github.com/kassabot/kassa_backend/internal/core/domain"

// MemberCache memoizes member lists per chat. The registry service owns the
// only reference and invalidates the chat's entry inside every mutating
// operation, so invalidation is a compile-time-checked side effect of the
// mutation rather than a convention. Balances are never cached; the engine
// always reads the live store.
type MemberCache interface {
	Get(chatID int64) ([]domain.Member, bool)
	Set(chatID int64, members []domain.Member)
	Del(chatID int64)
}
