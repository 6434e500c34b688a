package pgsql

import (
	"context"
	"fmt"

	"github.com/kassabot/kassa_backend/internal/apperrors"
	"github.com/kassabot/kassa_backend/internal/core/domain"
	portsrepo "github.com/kassabot/kassa_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// recordColumns is the projection every record query shares: the record row
// plus the donor member's current active flag (false when the donor was
// excluded from the registry).
const recordColumns = `
        r.chat_id, r.id, r.donor_account, r.has_donor, COALESCE(dm.active, FALSE),
        r.recipients_quantity, r.amount, r.active, r.message_id, r.reply_id`

const recordFrom = `
        FROM records r
        LEFT JOIN members dm ON dm.chat_id = r.chat_id AND dm.account = r.donor_account`

type RecordRepository struct {
	db *pgxpool.Pool
}

func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

// Ensure RecordRepository implements the facade
var _ portsrepo.RecordRepositoryFacade = (*RecordRepository)(nil)

func (r *RecordRepository) FindRecordsByDonor(ctx context.Context, chatID int64, account string, active bool) ([]domain.Record, error) {
	query := `SELECT` + recordColumns + recordFrom + `
        WHERE r.chat_id = $1 AND r.donor_account = $2 AND r.active = $3
        ORDER BY r.id;`
	return r.queryRecords(ctx, chatID, query, chatID, account, active)
}

func (r *RecordRepository) FindRecordsByRecipient(ctx context.Context, chatID int64, account string, active bool) ([]domain.Record, error) {
	query := `SELECT` + recordColumns + recordFrom + `
        WHERE r.chat_id = $1 AND r.active = $3
          AND EXISTS (
            SELECT 1 FROM record_recipients rr
            WHERE rr.chat_id = r.chat_id AND rr.record_id = r.id AND rr.account = $2
          )
        ORDER BY r.id;`
	return r.queryRecords(ctx, chatID, query, chatID, account, active)
}

func (r *RecordRepository) FindDonorlessRecords(ctx context.Context, chatID int64, active bool) ([]domain.Record, error) {
	query := `SELECT` + recordColumns + recordFrom + `
        WHERE r.chat_id = $1 AND r.has_donor = FALSE AND r.active = $2
        ORDER BY r.id;`
	return r.queryRecords(ctx, chatID, query, chatID, active)
}

func (r *RecordRepository) FindRecipientlessRecords(ctx context.Context, chatID int64, active bool) ([]domain.Record, error) {
	query := `SELECT` + recordColumns + recordFrom + `
        WHERE r.chat_id = $1 AND r.recipients_quantity = 0 AND r.active = $2
        ORDER BY r.id;`
	return r.queryRecords(ctx, chatID, query, chatID, active)
}

func (r *RecordRepository) FindRecordByID(ctx context.Context, chatID int64, id int64) (*domain.Record, error) {
	query := `SELECT` + recordColumns + recordFrom + `
        WHERE r.chat_id = $1 AND r.id = $2;`
	return r.queryRecord(ctx, chatID, query, chatID, id)
}

func (r *RecordRepository) FindRecordByMessageID(ctx context.Context, chatID int64, messageID int64) (*domain.Record, error) {
	query := `SELECT` + recordColumns + recordFrom + `
        WHERE r.chat_id = $1 AND r.message_id = $2;`
	return r.queryRecord(ctx, chatID, query, chatID, messageID)
}

func (r *RecordRepository) FindEdgeRecord(ctx context.Context, chatID int64, active bool, latest bool) (*domain.Record, error) {
	order := "ASC"
	if latest {
		order = "DESC"
	}
	query := `SELECT` + recordColumns + recordFrom + `
        WHERE r.chat_id = $1 AND r.active = $2
        ORDER BY r.id ` + order + `
        LIMIT 1;`
	return r.queryRecord(ctx, chatID, query, chatID, active)
}

func (r *RecordRepository) FindLastRecord(ctx context.Context, chatID int64) (*domain.Record, error) {
	query := `SELECT` + recordColumns + recordFrom + `
        WHERE r.chat_id = $1
        ORDER BY r.id DESC
        LIMIT 1;`
	return r.queryRecord(ctx, chatID, query, chatID)
}

func (r *RecordRepository) FindRecordIDs(ctx context.Context, chatID int64, active bool) ([]int64, error) {
	query := `SELECT id FROM records WHERE chat_id = $1 AND active = $2 ORDER BY id;`
	rows, err := r.db.Query(ctx, query, chatID, active)
	if err != nil {
		return nil, fmt.Errorf("failed to query record ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan record id: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating record ids: %w", rows.Err())
	}
	return ids, nil
}

func (r *RecordRepository) ListRecords(ctx context.Context, chatID int64, from int64, limit int) ([]domain.Record, error) {
	query := `SELECT` + recordColumns + recordFrom + `
        WHERE r.chat_id = $1 AND r.id >= $2
        ORDER BY r.id
        LIMIT $3;`
	return r.queryRecords(ctx, chatID, query, chatID, from, limit)
}

func (r *RecordRepository) CreateRecord(ctx context.Context, record domain.Record) (*domain.Record, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The next id slot is one past the highest active id, so records undone
	// at the tail are overwritten and the redo history stays short. Running
	// the id query inside the insert transaction closes the read-then-write
	// race between concurrent commands of one chat.
	var newID int64
	err = tx.QueryRow(ctx, `
        SELECT COALESCE(MAX(id), 0) + 1 FROM records
        WHERE chat_id = $1 AND active = TRUE;
    `, record.ChatID).Scan(&newID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate record id: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM records WHERE chat_id = $1 AND id = $2;`, record.ChatID, newID); err != nil {
		return nil, fmt.Errorf("failed to clear stale record slot %d: %w", newID, err)
	}

	record.ID = newID
	if err := insertRecord(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit record: %w", err)
	}
	return &record, nil
}

func (r *RecordRepository) ReplaceRecord(ctx context.Context, record domain.Record) (*domain.Record, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM records WHERE chat_id = $1 AND id = $2;`, record.ChatID, record.ID); err != nil {
		return nil, fmt.Errorf("failed to delete record %d for replace: %w", record.ID, err)
	}
	record.Active = true
	if err := insertRecord(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit record replace: %w", err)
	}
	return &record, nil
}

func insertRecord(ctx context.Context, tx pgx.Tx, record domain.Record) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO records (chat_id, id, donor_account, has_donor, recipients_quantity, amount, active, message_id, reply_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW());
    `, record.ChatID, record.ID, record.DonorAccount, record.HasDonor, record.RecipientsQuantity, record.Amount, record.Active, record.MessageID, record.ReplyID)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	for _, recipient := range record.Recipients {
		_, err := tx.Exec(ctx, `
            INSERT INTO record_recipients (chat_id, record_id, account)
            VALUES ($1, $2, $3);
        `, record.ChatID, record.ID, recipient.Account)
		if err != nil {
			return fmt.Errorf("failed to insert recipient %s: %w", recipient.Account, err)
		}
	}
	return nil
}

func (r *RecordRepository) UpdateRecordActive(ctx context.Context, chatID int64, id int64, active bool) (*domain.Record, error) {
	tag, err := r.db.Exec(ctx, `UPDATE records SET active = $3 WHERE chat_id = $1 AND id = $2;`, chatID, id, active)
	if err != nil {
		return nil, fmt.Errorf("failed to update record active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("record %d: %w", id, apperrors.ErrNotFound)
	}
	return r.FindRecordByID(ctx, chatID, id)
}

func (r *RecordRepository) UpdateRecordReply(ctx context.Context, chatID int64, id int64, replyID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE records SET reply_id = $3 WHERE chat_id = $1 AND id = $2;`, chatID, id, replyID)
	if err != nil {
		return fmt.Errorf("failed to update record reply id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *RecordRepository) queryRecord(ctx context.Context, chatID int64, query string, args ...any) (*domain.Record, error) {
	records, err := r.queryRecords(ctx, chatID, query, args...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil // Indicate not found explicitly
	}
	return &records[0], nil
}

func (r *RecordRepository) queryRecords(ctx context.Context, chatID int64, query string, args ...any) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		var rec domain.Record
		err := rows.Scan(
			&rec.ChatID,
			&rec.ID,
			&rec.DonorAccount,
			&rec.HasDonor,
			&rec.DonorActive,
			&rec.RecipientsQuantity,
			&rec.Amount,
			&rec.Active,
			&rec.MessageID,
			&rec.ReplyID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		rec.Recipients = []domain.Recipient{}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", rows.Err())
	}

	if err := r.loadRecipients(ctx, chatID, records); err != nil {
		return nil, err
	}
	return records, nil
}

// loadRecipients attaches the surviving recipient projection to each record.
// Recipients removed from the registry have no row here; the gap between
// len(Recipients) and RecipientsQuantity is what the balance engine uses to
// compute the non-deleted part of an amount.
func (r *RecordRepository) loadRecipients(ctx context.Context, chatID int64, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]int64, len(records))
	index := make(map[int64]*domain.Record, len(records))
	for i := range records {
		ids[i] = records[i].ID
		index[records[i].ID] = &records[i]
	}

	rows, err := r.db.Query(ctx, `
        SELECT rr.record_id, rr.account, m.active
        FROM record_recipients rr
        JOIN members m ON m.chat_id = rr.chat_id AND m.account = rr.account
        WHERE rr.chat_id = $1 AND rr.record_id = ANY($2)
        ORDER BY rr.record_id;
    `, chatID, ids)
	if err != nil {
		return fmt.Errorf("failed to query recipients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recordID int64
		var recipient domain.Recipient
		if err := rows.Scan(&recordID, &recipient.Account, &recipient.Active); err != nil {
			return fmt.Errorf("failed to scan recipient row: %w", err)
		}
		if rec, ok := index[recordID]; ok {
			rec.Recipients = append(rec.Recipients, recipient)
		}
	}
	if rows.Err() != nil {
		return fmt.Errorf("error iterating recipient rows: %w", rows.Err())
	}
	return nil
}
