package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gophcheck-server/internal/model"
)

var _ model.AttemptStore = (*AttemptRepository)(nil)

type AttemptRepository struct {
	db *Provider
}

func NewAttemptRepository(db *Provider) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Record(ctx context.Context, attempt model.Attempt) error {
	const query = `
        INSERT INTO staff_checks (id, staff_session_id, ip, code_hash, success, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}

	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, query,
		uuid.New(),
		attempt.SessionID,
		attempt.IP,
		attempt.CodeHash,
		attempt.Success,
		attempt.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}
