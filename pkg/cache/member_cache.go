// Package cache provides a process-local TTL cache for chat member lists.
package cache

import (
	"sync"
	"time"

	"github.com/kassabot/kassa_backend/internal/core/domain"
	"github.com/kassabot/kassa_backend/internal/core/ports"
)

type entry struct {
	members   []domain.Member
	expiresAt time.Time
}

// MemberCache is a mutex-guarded map keyed by chat id. TTL <= 0 disables
// expiry.
type MemberCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[int64]entry
}

func NewMemberCache(ttl time.Duration) *MemberCache {
	return &MemberCache{
		ttl:     ttl,
		entries: make(map[int64]entry),
	}
}

var _ ports.MemberCache = (*MemberCache)(nil)

func (c *MemberCache) Get(chatID int64) ([]domain.Member, bool) {
	c.mu.RLock()
	e, ok := c.entries[chatID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Now().After(e.expiresAt) {
		c.Del(chatID)
		return nil, false
	}
	// Copy so callers cannot mutate the cached slice.
	members := make([]domain.Member, len(e.members))
	copy(members, e.members)
	return members, true
}

func (c *MemberCache) Set(chatID int64, members []domain.Member) {
	stored := make([]domain.Member, len(members))
	copy(stored, members)
	c.mu.Lock()
	c.entries[chatID] = entry{
		members:   stored,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

func (c *MemberCache) Del(chatID int64) {
	c.mu.Lock()
	delete(c.entries, chatID)
	c.mu.Unlock()
}
