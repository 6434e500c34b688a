package repositories

import (
	"context"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// MemberReader defines read operations for group members.
type MemberReader interface {
	// FindMembers retrieves the members of a chat. A nil active filter
	// returns everyone, frozen members included.
	FindMembers(ctx context.Context, chatID int64, active *bool) ([]domain.Member, error)

	// FindMemberByAccount retrieves a specific member, or nil if absent.
	FindMemberByAccount(ctx context.Context, chatID int64, account string) (*domain.Member, error)
}

// MemberWriter defines mutating operations for group members.
type MemberWriter interface {
	// SaveMember persists a new member.
	SaveMember(ctx context.Context, member domain.Member) error

	// UpdateMemberActive flips the freeze flag.
	UpdateMemberActive(ctx context.Context, chatID int64, account string, active bool) error

	// UpdateMemberAccount rewrites the identity string, keeping the
	// participation links intact.
	UpdateMemberAccount(ctx context.Context, chatID int64, oldAccount, newAccount string) error

	// DeleteMember removes a member; participation links cascade away,
	// shrinking the live recipient sets of historical records.
	DeleteMember(ctx context.Context, chatID int64, account string) error

	// ResetMember deletes and recreates the member in one transaction,
	// clearing balance history while preserving the identity.
	ResetMember(ctx context.Context, chatID int64, account string) error
}

// MemberRepositoryFacade combines all member repository interfaces.
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
}
