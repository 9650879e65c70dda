package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"biblioteca-api/internal/domains/rating/model"
	"biblioteca-api/pkg/database"
)

type postgresRatingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &postgresRatingRepository{pool: pool}
}

func (r *postgresRatingRepository) Summary(ctx context.Context, bookID int) (*model.Summary, error) {
	var (
		avg   float64
		total int
	)
	err := r.pool.QueryRow(ctx,
		`SELECT average_rating, total_ratings FROM books WHERE id = $1`, bookID,
	).Scan(&avg, &total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book rating: %w", err)
	}
	return &model.Summary{Average: decimal.NewFromFloat(avg), Total: total}, nil
}

func (r *postgresRatingRepository) Find(ctx context.Context, bookID int, userID uuid.UUID) (*model.Rating, error) {
	rating := &model.Rating{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, book_id, user_id, score, created_at
		FROM ratings
		WHERE book_id = $1 AND user_id = $2`, bookID, userID,
	).Scan(&rating.ID, &rating.BookID, &rating.UserID, &rating.Score, &rating.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return rating, nil
}

func (r *postgresRatingRepository) Create(ctx context.Context, rating *model.Rating) (*model.Summary, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Summary, error) {
		err := tx.QueryRow(ctx, `
			INSERT INTO ratings (book_id, user_id, score, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			rating.BookID, rating.UserID, rating.Score, rating.CreatedAt,
		).Scan(&rating.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create rating: %w", err)
		}
		return refreshBookStats(ctx, tx, rating.BookID)
	})
}

func (r *postgresRatingRepository) UpdateScore(ctx context.Context, id int, bookID int, score decimal.Decimal) (*model.Summary, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Summary, error) {
		tag, err := tx.Exec(ctx, `UPDATE ratings SET score = $1 WHERE id = $2`, score, id)
		if err != nil {
			return nil, fmt.Errorf("failed to update rating: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, model.ErrRatingNotFound
		}
		return refreshBookStats(ctx, tx, bookID)
	})
}

func (r *postgresRatingRepository) Delete(ctx context.Context, id int, bookID int) (*model.Summary, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Summary, error) {
		tag, err := tx.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
		if err != nil {
			return nil, fmt.Errorf("failed to delete rating: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, model.ErrRatingNotFound
		}
		return refreshBookStats(ctx, tx, bookID)
	})
}

// refreshBookStats recomputes the aggregate from every score of the book
// and writes it onto the books row. The row lock keeps concurrent raters
// from overwriting each other's recomputation.
func refreshBookStats(ctx context.Context, tx pgx.Tx, bookID int) (*model.Summary, error) {
	if _, err := tx.Exec(ctx, `SELECT id FROM books WHERE id = $1 FOR UPDATE`, bookID); err != nil {
		return nil, fmt.Errorf("failed to lock book: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT score FROM ratings WHERE book_id = $1`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}
	defer rows.Close()

	scores := make([]decimal.Decimal, 0)
	for rows.Next() {
		var s decimal.Decimal
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	summary := model.Summarize(scores)
	_, err = tx.Exec(ctx,
		`UPDATE books SET average_rating = $1, total_ratings = $2 WHERE id = $3`,
		summary.Average.InexactFloat64(), summary.Total, bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update book rating: %w", err)
	}
	return &summary, nil
}
