package postgres

import (
	"context"
	"fmt"

	"github.com/dtroode/gophcheck-server/internal/model"
)

var _ model.CodeStore = (*CodeRepository)(nil)

type CodeRepository struct {
	db *Provider
}

func NewCodeRepository(db *Provider) *CodeRepository {
	return &CodeRepository{db: db}
}

// Consume flips the code to inactive in the same statement that matches it,
// so two concurrent consumers can never both see an affected row.
func (r *CodeRepository) Consume(ctx context.Context, digest string) (bool, error) {
	const query = `
        UPDATE codes
        SET active = FALSE, consumed_at = NOW()
        WHERE digest = $1 AND active = TRUE
    `

	db, err := r.db.DB(ctx)
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, query, digest)
	if err != nil {
		return false, fmt.Errorf("failed to consume code: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read consumed rows: %w", err)
	}

	return n == 1, nil
}

func (r *CodeRepository) Create(ctx context.Context, digest string) error {
	const query = `
        INSERT INTO codes (digest, active)
        VALUES ($1, TRUE)
        ON CONFLICT (digest) DO NOTHING
    `

	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, query, digest); err != nil {
		return fmt.Errorf("failed to create code: %w", err)
	}
	return nil
}
