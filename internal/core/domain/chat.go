package domain

import "time"

// Chat is one group ledger. Every member and record is partitioned by the
// chat id; commands from different chats never interact.
type Chat struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}
