package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/kassabot/kassa_backend/internal/apperrors"
	"github.com/kassabot/kassa_backend/internal/core/domain"
	portsrepo "github.com/kassabot/kassa_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

// Ensure MemberRepository implements the facade
var _ portsrepo.MemberRepositoryFacade = (*MemberRepository)(nil)

func (r *MemberRepository) FindMembers(ctx context.Context, chatID int64, active *bool) ([]domain.Member, error) {
	query := `
        SELECT chat_id, account, active
        FROM members
        WHERE chat_id = $1 AND ($2::boolean IS NULL OR active = $2)
        ORDER BY created_at, account;
    `
	rows, err := r.db.Query(ctx, query, chatID, active)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ChatID, &m.Account, &m.Active); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", rows.Err())
	}
	return members, nil
}

func (r *MemberRepository) FindMemberByAccount(ctx context.Context, chatID int64, account string) (*domain.Member, error) {
	query := `
        SELECT chat_id, account, active
        FROM members
        WHERE chat_id = $1 AND account = $2;
    `
	var m domain.Member
	err := r.db.QueryRow(ctx, query, chatID, account).Scan(&m.ChatID, &m.Account, &m.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Indicate not found explicitly
		}
		return nil, fmt.Errorf("failed to find member by account: %w", err)
	}
	return &m, nil
}

func (r *MemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	query := `
        INSERT INTO members (chat_id, account, active, created_at)
        VALUES ($1, $2, $3, NOW());
    `
	_, err := r.db.Exec(ctx, query, member.ChatID, member.Account, member.Active)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("member %s already exists: %w", member.Account, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

func (r *MemberRepository) UpdateMemberActive(ctx context.Context, chatID int64, account string, active bool) error {
	query := `UPDATE members SET active = $3 WHERE chat_id = $1 AND account = $2;`
	tag, err := r.db.Exec(ctx, query, chatID, account, active)
	if err != nil {
		return fmt.Errorf("failed to update member active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("member %s: %w", account, apperrors.ErrNotFound)
	}
	return nil
}

func (r *MemberRepository) UpdateMemberAccount(ctx context.Context, chatID int64, oldAccount, newAccount string) error {
	// The recipient links carry the account as part of their key, so both
	// tables move inside one transaction.
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE members SET account = $3 WHERE chat_id = $1 AND account = $2;`, chatID, oldAccount, newAccount)
	if err != nil {
		return fmt.Errorf("failed to update member account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("member %s: %w", oldAccount, apperrors.ErrNotFound)
	}
	if _, err := tx.Exec(ctx, `UPDATE records SET donor_account = $3 WHERE chat_id = $1 AND donor_account = $2;`, chatID, oldAccount, newAccount); err != nil {
		return fmt.Errorf("failed to move donor links: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account update: %w", err)
	}
	return nil
}

func (r *MemberRepository) DeleteMember(ctx context.Context, chatID int64, account string) error {
	query := `DELETE FROM members WHERE chat_id = $1 AND account = $2;`
	tag, err := r.db.Exec(ctx, query, chatID, account)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("member %s: %w", account, apperrors.ErrNotFound)
	}
	return nil
}

func (r *MemberRepository) ResetMember(ctx context.Context, chatID int64, account string) error {
	// Delete and recreate in one transaction: participation links cascade
	// away while the identity string survives.
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM members WHERE chat_id = $1 AND account = $2;`, chatID, account)
	if err != nil {
		return fmt.Errorf("failed to delete member for reset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("member %s: %w", account, apperrors.ErrNotFound)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO members (chat_id, account, active, created_at) VALUES ($1, $2, TRUE, NOW());`, chatID, account); err != nil {
		return fmt.Errorf("failed to recreate member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit member reset: %w", err)
	}
	return nil
}
