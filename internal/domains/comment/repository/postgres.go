package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"biblioteca-api/internal/domains/comment/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresRepository{pool: pool}
}

const selectComments = `
	SELECT c.id, c.body, c.posted_at, c.book_id, c.user_id, u.email, c.is_deleted
	FROM comments c
	JOIN users u ON u.id = c.user_id`

func (r *postgresRepository) ListByBook(ctx context.Context, bookID int) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, selectComments+`
		WHERE c.book_id = $1 AND c.is_deleted = false
		ORDER BY c.posted_at DESC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return comments, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, bookID int, id uuid.UUID) (*model.Comment, error) {
	var c model.Comment
	row := r.pool.QueryRow(ctx, selectComments+`
		WHERE c.id = $1 AND c.book_id = $2 AND c.is_deleted = false`, id, bookID)
	if err := scanComment(row, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanComment(row pgx.Row, c *model.Comment) error {
	err := row.Scan(&c.ID, &c.Body, &c.PostedAt, &c.BookID, &c.UserID, &c.UserEmail, &c.IsDeleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to scan comment: %w", err)
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, body, posted_at, book_id, user_id, is_deleted)
		VALUES ($1, $2, $3, $4, $5, false)`,
		c.ID, c.Body, c.PostedAt, c.BookID, c.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateBody(ctx context.Context, id uuid.UUID, body string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET body = $2 WHERE id = $1 AND is_deleted = false`, id, body)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET is_deleted = true WHERE id = $1 AND is_deleted = false`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}
