package services

import (
	"context"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// RegistrySvcFacade manages the member registry of a chat. Every mutating
// operation invalidates the chat's member-list cache before returning.
type RegistrySvcFacade interface {
	// ListMembers returns the chat's members, optionally filtered by the
	// active flag. Unfiltered lists are served from the cache when warm.
	ListMembers(ctx context.Context, chatID int64, active *bool) ([]domain.Member, error)

	// Include adds new members by account name. Names already present are
	// skipped and reported separately.
	Include(ctx context.Context, chatID int64, accounts []string) (included []domain.Member, existing []domain.Member, err error)

	// Exclude hard-deletes members; their participation links cascade away.
	Exclude(ctx context.Context, chatID int64, accounts []string) ([]domain.Member, error)

	// Freeze deactivates active members.
	Freeze(ctx context.Context, chatID int64, accounts []string) ([]domain.Member, error)

	// Unfreeze reactivates frozen members.
	Unfreeze(ctx context.Context, chatID int64, accounts []string) ([]domain.Member, error)

	// ZeroOut deletes and recreates a member, detaching balance history
	// while keeping the identity string.
	ZeroOut(ctx context.Context, chatID int64, account string) (*domain.Member, error)

	// ClaimAccount rewrites a ghost account to the numeric platform id
	// once the matching user is seen in the chat.
	ClaimAccount(ctx context.Context, chatID int64, ghostAccount string, userID int64) (*domain.Member, error)
}
