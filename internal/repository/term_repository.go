package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TermRepository reads the terms courses are offered in.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository constructs a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// ListDistinct returns every term that has at least one course, newest first.
func (r *TermRepository) ListDistinct(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT term FROM courses WHERE term <> '' ORDER BY term DESC`
	terms := []string{}
	if err := r.db.SelectContext(ctx, &terms, query); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}
