package services

import (
	"github.com/kassabot/kassa_backend/internal/core/ports"
	portsrepo "github.com/kassabot/kassa_backend/internal/core/ports/repositories"
	portssvc "github.com/kassabot/kassa_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service over the repository provider and
// the shared member-list cache.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cache ports.MemberCache) *portssvc.ServiceContainer {
	registry := NewRegistryService(repos.MemberRepo, cache)
	return &portssvc.ServiceContainer{
		Chat:     NewChatService(repos.ChatRepo),
		Registry: registry,
		Ledger:   NewLedgerService(registry, repos.RecordRepo),
		Balance:  NewBalanceService(repos.MemberRepo, repos.RecordRepo),
		History:  NewHistoryService(repos.RecordRepo),
	}
}
