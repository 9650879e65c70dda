package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"biblioteca-api/internal/domains/book/model"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const bookColumns = "b.id, b.title, b.average_rating, b.total_ratings"

func (r *postgresRepository) List(ctx context.Context, page pagination.Params) ([]model.Book, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+bookColumns+`
		FROM books b
		ORDER BY b.title ASC, b.id ASC
		LIMIT $1 OFFSET $2`, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, page.Limit())
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.AverageRating, &b.TotalRatings); err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return books, total, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int) (*model.Book, error) {
	var b model.Book
	err := r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.id = $1`, id).
		Scan(&b.ID, &b.Title, &b.AverageRating, &b.TotalRatings)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.first_name, a.last_name, a.photo, ab."order"
		FROM author_books ab
		JOIN authors a ON a.id = ab.author_id
		WHERE ab.book_id = $1
		ORDER BY ab."order" ASC, a.id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load book authors: %w", err)
	}
	defer rows.Close()

	b.Authors = []model.BookAuthor{}
	for rows.Next() {
		var a model.BookAuthor
		if err := rows.Scan(&a.AuthorID, &a.FirstName, &a.LastName, &a.Photo, &a.Order); err != nil {
			return nil, fmt.Errorf("failed to scan book author: %w", err)
		}
		b.Authors = append(b.Authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check book: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistingAuthorIDs(ctx context.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return []int{}, nil
	}

	wanted := make([]int64, len(ids))
	for i, id := range ids {
		wanted[i] = int64(id)
	}

	rows, err := r.pool.Query(ctx, `SELECT id FROM authors WHERE id = ANY($1)`, pq.Array(wanted))
	if err != nil {
		return nil, fmt.Errorf("failed to validate authors: %w", err)
	}
	defer rows.Close()

	found := make([]int, 0, len(ids))
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan author id: %w", err)
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO books (title) VALUES ($1) RETURNING id, average_rating, total_ratings`, b.Title,
		).Scan(&b.ID, &b.AverageRating, &b.TotalRatings)
		if err != nil {
			return fmt.Errorf("failed to create book: %w", err)
		}
		return insertAuthorLinks(ctx, tx, b)
	})
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE books SET title = $2 WHERE id = $1`, b.ID, b.Title)
		if err != nil {
			return fmt.Errorf("failed to update book: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrBookNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM author_books WHERE book_id = $1`, b.ID); err != nil {
			return fmt.Errorf("failed to clear book authors: %w", err)
		}
		return insertAuthorLinks(ctx, tx, b)
	})
}

func insertAuthorLinks(ctx context.Context, tx pgx.Tx, b *model.Book) error {
	batch := &pgx.Batch{}
	for _, a := range b.Authors {
		batch.Queue(`INSERT INTO author_books (author_id, book_id, "order") VALUES ($1, $2, $3)`,
			a.AuthorID, b.ID, a.Order)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to link authors: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
