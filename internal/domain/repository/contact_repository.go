package repository

import (
	"context"
	"database/sql"
	"fmt"

	"portfolio_api/internal/common"
	"portfolio_api/internal/domain/model"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
	List(ctx context.Context) ([]model.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	UnreadCount(ctx context.Context) (int, error)
}

type pgContactRepository struct {
	db *sql.DB
}

func NewPgContactRepository(db *sql.DB) ContactRepository {
	return &pgContactRepository{db: db}
}

func (r *pgContactRepository) Create(ctx context.Context, m *model.ContactMessage) error {
	query := `INSERT INTO contacts (id, name, email, phone, message, read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.Name, m.Email, m.Phone, m.Message, m.Read, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgContactRepository.Create: %w", err)
	}
	return nil
}

func (r *pgContactRepository) List(ctx context.Context) ([]model.ContactMessage, error) {
	query := `SELECT id, name, email, phone, message, read, created_at
	          FROM contacts ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgContactRepository.List: %w", err)
	}
	defer rows.Close()

	messages := []model.ContactMessage{}
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgContactRepository.List: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgContactRepository.List: %w", err)
	}
	return messages, nil
}

func (r *pgContactRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE contacts SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgContactRepository.MarkRead: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgContactRepository.MarkRead: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgContactRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgContactRepository.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgContactRepository.Delete: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgContactRepository) UnreadCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE read = FALSE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgContactRepository.UnreadCount: %w", err)
	}
	return count, nil
}
