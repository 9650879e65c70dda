package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"biblioteca-api/internal/domains/author/model"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/pkg/database"
)

// postgresRepository implements RepositoryInterface with raw SQL on pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// ========================================
// READ
// ========================================

func (r *postgresRepository) List(ctx context.Context, page pagination.Params) ([]model.Author, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	query := `SELECT ` + authorColumns + ` FROM authors a
		ORDER BY ` + model.DefaultSort.OrderBy("a") + `
		LIMIT $1 OFFSET $2`

	authors, err := r.queryAuthors(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors a WHERE a.id = $1`

	var a model.Author
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.FirstName,
		&a.LastName,
		&a.Identification,
		&a.Photo,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	authors := []model.Author{a}
	if err := r.attachBooks(ctx, authors); err != nil {
		return nil, err
	}
	return &authors[0], nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []int) ([]model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors a
		WHERE a.id = ANY($1)
		ORDER BY a.id`

	authors, err := r.queryAuthors(ctx, query, pq.Array(toInt64s(ids)))
	if err != nil {
		return nil, err
	}
	if err := r.attachBooks(ctx, authors); err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *postgresRepository) Filter(ctx context.Context, filter model.AuthorFilter, sort model.SortSpec) ([]model.Author, error) {
	query, args := buildFilterQuery(filter, sort)

	authors, err := r.queryAuthors(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if filter.IncludeBooks {
		if err := r.attachBooks(ctx, authors); err != nil {
			return nil, err
		}
	}
	return authors, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) queryAuthors(ctx context.Context, query string, args ...interface{}) ([]model.Author, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	authors := make([]model.Author, 0)
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Identification, &a.Photo); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return authors, nil
}

// attachBooks loads the books of all given authors with a single query
func (r *postgresRepository) attachBooks(ctx context.Context, authors []model.Author) error {
	if len(authors) == 0 {
		return nil
	}

	index := make(map[int]int, len(authors))
	ids := make([]int64, 0, len(authors))
	for i := range authors {
		index[authors[i].ID] = i
		ids = append(ids, int64(authors[i].ID))
		authors[i].Books = []model.AuthorBook{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ab.author_id, b.id, b.title, ab."order"
		FROM author_books ab
		JOIN books b ON b.id = ab.book_id
		WHERE ab.author_id = ANY($1)
		ORDER BY ab.author_id, ab."order", b.id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load author books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			authorID int
			book     model.AuthorBook
		)
		if err := rows.Scan(&authorID, &book.BookID, &book.Title, &book.Order); err != nil {
			return fmt.Errorf("failed to scan author book: %w", err)
		}
		if i, ok := index[authorID]; ok {
			authors[i].Books = append(authors[i].Books, book)
		}
	}
	return rows.Err()
}

// ========================================
// WRITE
// ========================================

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return insertAuthor(ctx, tx, a)
	})
}

func (r *postgresRepository) CreateMany(ctx context.Context, authors []*model.Author) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, a := range authors {
			if err := insertAuthor(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertAuthor(ctx context.Context, tx pgx.Tx, a *model.Author) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO authors (first_name, last_name, identification, photo)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		a.FirstName, a.LastName, a.Identification, a.Photo,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}

	for i := range a.Books {
		book := &a.Books[i]
		if err := tx.QueryRow(ctx,
			`INSERT INTO books (title) VALUES ($1) RETURNING id`, book.Title,
		).Scan(&book.BookID); err != nil {
			return fmt.Errorf("failed to create book: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO author_books (author_id, book_id, "order") VALUES ($1, $2, $3)`,
			a.ID, book.BookID, book.Order,
		); err != nil {
			return fmt.Errorf("failed to link book: %w", err)
		}
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE authors
		SET first_name = $2, last_name = $3, identification = $4, photo = $5
		WHERE id = $1`,
		a.ID, a.FirstName, a.LastName, a.Identification, a.Photo,
	)
	if err != nil {
		return fmt.Errorf("failed to update author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

func toInt64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
