package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/kassabot/kassa_backend/internal/core/domain"
	portsrepo "github.com/kassabot/kassa_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

var _ portsrepo.ChatRepositoryFacade = (*ChatRepository)(nil)

func (r *ChatRepository) SaveChat(ctx context.Context, chat domain.Chat) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO chats (id, title, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title;
    `, chat.ID, chat.Title)
	if err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}
	return nil
}

func (r *ChatRepository) FindChatByID(ctx context.Context, chatID int64) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.db.QueryRow(ctx, `
        SELECT id, title, created_at FROM chats WHERE id = $1;
    `, chatID).Scan(&chat.ID, &chat.Title, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Indicate not found explicitly
		}
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}
	return &chat, nil
}

// NewRepositoryProvider bundles the pgsql implementations behind the
// repository ports.
func NewRepositoryProvider(db *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ChatRepo:   NewChatRepository(db),
		MemberRepo: NewMemberRepository(db),
		RecordRepo: NewRecordRepository(db),
	}
}
