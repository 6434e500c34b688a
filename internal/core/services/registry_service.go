package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/kassabot/kassa_backend/internal/apperrors"
	"github.com/kassabot/kassa_backend/internal/core/domain"
	"github.com/kassabot/kassa_backend/internal/core/ports"
	portsrepo "github.com/kassabot/kassa_backend/internal/core/ports/repositories"
	portssvc "github.com/kassabot/kassa_backend/internal/core/ports/services"
)

var (
	ghostNameFilter = regexp.MustCompile(`^[0-9a-zA-Zа-яА-Я_.]{3,}$`)
	numericFilter   = regexp.MustCompile(`^[0-9]+$`)
	usernameFilter  = regexp.MustCompile(`^@[0-9a-zA-Z_]{5,}$`)
	mentionedID     = regexp.MustCompile(`^@[0-9]+$`)
)

// registryService manages members of a chat. The member-list cache is an
// explicit dependency and every mutating operation invalidates the chat's
// entry before returning, so a stale list can never outlive a mutation.
type registryService struct {
	BaseService
	memberRepo portsrepo.MemberRepositoryFacade
	cache      ports.MemberCache
}

// NewRegistryService creates a new registry service.
func NewRegistryService(memberRepo portsrepo.MemberRepositoryFacade, cache ports.MemberCache) portssvc.RegistrySvcFacade {
	return &registryService{
		memberRepo: memberRepo,
		cache:      cache,
	}
}

// Ensure registryService implements the RegistrySvcFacade interface
var _ portssvc.RegistrySvcFacade = (*registryService)(nil)

func (s *registryService) ListMembers(ctx context.Context, chatID int64, active *bool) ([]domain.Member, error) {
	if active == nil {
		if members, ok := s.cache.Get(chatID); ok {
			return members, nil
		}
	}
	members, err := s.memberRepo.FindMembers(ctx, chatID, active)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if active == nil {
		s.cache.Set(chatID, members)
		return members, nil
	}
	// Filtered lists are cheap to derive, so only the full list is cached.
	return members, nil
}

func (s *registryService) Include(ctx context.Context, chatID int64, accounts []string) ([]domain.Member, []domain.Member, error) {
	accounts = dedupe(accounts)
	if err := validateAccounts(accounts); err != nil {
		return nil, nil, err
	}

	current, err := s.memberRepo.FindMembers(ctx, chatID, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members: %w", err)
	}

	var included, existing []domain.Member
	for _, name := range accounts {
		account := name
		// A mentioned platform user arrives as "@<id>"; the marker only
		// distinguishes it from an amount and is not stored.
		if mentionedID.MatchString(name) {
			account = name[1:]
		}
		if taken := findByAccount(current, account); taken != nil {
			existing = append(existing, *taken)
			continue
		}
		member := domain.Member{ChatID: chatID, Account: account, Active: true}
		if err := s.memberRepo.SaveMember(ctx, member); err != nil {
			return nil, nil, fmt.Errorf("failed to save member %s: %w", account, err)
		}
		included = append(included, member)
	}

	s.cache.Del(chatID)
	s.LogInfo(ctx, "Members included",
		slog.Int64("chat_id", chatID),
		slog.Int("included", len(included)),
		slog.Int("already_present", len(existing)))
	return included, existing, nil
}

func (s *registryService) Exclude(ctx context.Context, chatID int64, accounts []string) ([]domain.Member, error) {
	return s.manageMembers(ctx, chatID, accounts, nil, "excluded", func(m domain.Member) error {
		return s.memberRepo.DeleteMember(ctx, chatID, m.Account)
	})
}

func (s *registryService) Freeze(ctx context.Context, chatID int64, accounts []string) ([]domain.Member, error) {
	active := true
	return s.manageMembers(ctx, chatID, accounts, &active, "frozen", func(m domain.Member) error {
		return s.memberRepo.UpdateMemberActive(ctx, chatID, m.Account, false)
	})
}

func (s *registryService) Unfreeze(ctx context.Context, chatID int64, accounts []string) ([]domain.Member, error) {
	inactive := false
	return s.manageMembers(ctx, chatID, accounts, &inactive, "unfrozen", func(m domain.Member) error {
		return s.memberRepo.UpdateMemberActive(ctx, chatID, m.Account, true)
	})
}

// manageMembers resolves the queried accounts against the members matching
// the active filter and applies the update to each. Resolution failures are
// user errors; update failures are not.
func (s *registryService) manageMembers(ctx context.Context, chatID int64, accounts []string, active *bool, verb string, update func(domain.Member) error) ([]domain.Member, error) {
	members, err := s.memberRepo.FindMembers(ctx, chatID, active)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	managing := make([]domain.Member, 0, len(accounts))
	var missing []string
	for _, account := range accounts {
		if member := findByAccount(members, account); member != nil {
			managing = append(managing, *member)
		} else {
			missing = append(missing, account)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("members not found: %s: %w", strings.Join(missing, ", "), apperrors.ErrRejected)
	}

	for _, member := range managing {
		if err := update(member); err != nil {
			return nil, fmt.Errorf("failed to update member %s: %w", member.Account, err)
		}
	}

	s.cache.Del(chatID)
	s.LogInfo(ctx, "Members "+verb,
		slog.Int64("chat_id", chatID),
		slog.Int("count", len(managing)))
	return managing, nil
}

func (s *registryService) ZeroOut(ctx context.Context, chatID int64, account string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByAccount(ctx, chatID, account)
	if err != nil {
		return nil, fmt.Errorf("failed to find member %s: %w", account, err)
	}
	if member == nil {
		return nil, fmt.Errorf("member %s not found: %w", account, apperrors.ErrRejected)
	}
	if err := s.memberRepo.ResetMember(ctx, chatID, account); err != nil {
		return nil, fmt.Errorf("failed to reset member %s: %w", account, err)
	}

	s.cache.Del(chatID)
	s.LogInfo(ctx, "Member zeroed out",
		slog.Int64("chat_id", chatID),
		slog.String("account", account))
	reset := domain.Member{ChatID: chatID, Account: account, Active: true}
	return &reset, nil
}

func (s *registryService) ClaimAccount(ctx context.Context, chatID int64, ghostAccount string, userID int64) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByAccount(ctx, chatID, ghostAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to find member %s: %w", ghostAccount, err)
	}
	if member == nil {
		return nil, fmt.Errorf("member %s not found: %w", ghostAccount, apperrors.ErrRejected)
	}
	if member.Kind() != domain.KindGhost {
		return nil, fmt.Errorf("member %s already has a platform id: %w", ghostAccount, apperrors.ErrRejected)
	}

	newAccount := strconv.FormatInt(userID, 10)
	if err := s.memberRepo.UpdateMemberAccount(ctx, chatID, ghostAccount, newAccount); err != nil {
		return nil, fmt.Errorf("failed to claim account %s: %w", ghostAccount, err)
	}

	s.cache.Del(chatID)
	s.LogInfo(ctx, "Ghost account claimed",
		slog.Int64("chat_id", chatID),
		slog.String("ghost", ghostAccount),
		slog.Int64("user_id", userID))
	claimed := domain.Member{ChatID: chatID, Account: newAccount, Active: member.Active}
	return &claimed, nil
}

func validateAccounts(accounts []string) error {
	for _, name := range accounts {
		if !strings.HasPrefix(name, "@") && !ghostNameFilter.MatchString(name) {
			return fmt.Errorf("allowed name characters are 0-9 a-z а-я _ . with at least 3 of them: %w", apperrors.ErrRejected)
		}
		if numericFilter.MatchString(name) {
			return fmt.Errorf("names of digits only are not allowed: %w", apperrors.ErrRejected)
		}
		if strings.HasPrefix(name, "@") && !usernameFilter.MatchString(name) && !mentionedID.MatchString(name) {
			return fmt.Errorf("username %s is malformed: %w", name, apperrors.ErrRejected)
		}
	}
	return nil
}

func dedupe(accounts []string) []string {
	seen := make(map[string]struct{}, len(accounts))
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

func findByAccount(members []domain.Member, account string) *domain.Member {
	for i := range members {
		if members[i].Account == account {
			return &members[i]
		}
	}
	return nil
}
