package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"biblioteca-api/internal/domains/user/model"
	"biblioteca-api/internal/shared/pagination"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresRepository{pool: pool}
}

// ========================================
// CREATE
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, birth_date)
		VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.BirthDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ========================================
// READ
// ========================================

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, model.NormalizeEmail(email))
}

func (r *postgresRepository) findOne(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, birth_date FROM users `+where, arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.BirthDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	users := []model.User{*u}
	if err := r.attachClaims(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (r *postgresRepository) List(ctx context.Context, page pagination.Params) ([]model.User, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, email, password_hash, birth_date
		FROM users
		ORDER BY email ASC
		LIMIT $1 OFFSET $2`, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, page.Limit())
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.BirthDate); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	if err := r.attachClaims(ctx, users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// attachClaims loads the claims of every user in one query
func (r *postgresRepository) attachClaims(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]string, len(users))
	index := make(map[uuid.UUID]int, len(users))
	for i := range users {
		ids[i] = users[i].ID.String()
		index[users[i].ID] = i
		users[i].Claims = map[string]string{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT user_id, claim_type, claim_value
		FROM user_claims
		WHERE user_id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load claims: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID           uuid.UUID
			claimType, value string
		)
		if err := rows.Scan(&userID, &claimType, &value); err != nil {
			return fmt.Errorf("failed to scan claim: %w", err)
		}
		users[index[userID]].Claims[claimType] = value
	}
	return rows.Err()
}

// ========================================
// UPDATE
// ========================================

func (r *postgresRepository) Update(ctx context.Context, u *model.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET birth_date = $1, password_hash = $2
		WHERE id = $3`, u.BirthDate, u.PasswordHash, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) SetClaim(ctx context.Context, userID uuid.UUID, claimType, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_claims (user_id, claim_type, claim_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, claim_type) DO UPDATE SET claim_value = EXCLUDED.claim_value`,
		userID, claimType, value)
	if err != nil {
		return fmt.Errorf("failed to set claim: %w", err)
	}
	return nil
}

func (r *postgresRepository) RemoveClaim(ctx context.Context, userID uuid.UUID, claimType, value string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_claims
		WHERE user_id = $1 AND claim_type = $2 AND claim_value = $3`,
		userID, claimType, value)
	if err != nil {
		return fmt.Errorf("failed to remove claim: %w", err)
	}
	return nil
}
