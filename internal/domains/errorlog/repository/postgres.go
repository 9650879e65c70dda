package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"biblioteca-api/internal/domains/errorlog/model"
)

type Repository interface {
	Create(ctx context.Context, entry *model.ErrorLog) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, entry *model.ErrorLog) error {
	query := `
		INSERT INTO errors (id, message, stack_trace, date)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.pool.Exec(ctx, query, entry.ID, entry.Message, entry.StackTrace, entry.Date); err != nil {
		return fmt.Errorf("insert error log: %w", err)
	}
	return nil
}
