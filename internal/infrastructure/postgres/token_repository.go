package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-auth-api/internal/domain/entity"
	"github.com/oksasatya/go-auth-api/internal/domain/repository"
)

type TokenRepository struct {
	db DBTX
}

func NewTokenRepository(db DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Insert(ctx context.Context, t *entity.SessionToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO personal_access_tokens (id, user_id, name, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.AccountID, t.Name, t.Hash, t.IssuedAt, t.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateToken
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteAllForAccount(ctx context.Context, accountID string) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM personal_access_tokens WHERE user_id = $1`, accountID)
	if err != nil {
		return 0, fmt.Errorf("delete tokens: %w", err)
	}
	return res.RowsAffected(), nil
}

func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*entity.SessionToken, error) {
	t := &entity.SessionToken{}
	var expiresAt *time.Time

	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, token_hash, created_at, expires_at
		FROM personal_access_tokens
		WHERE token_hash = $1
	`, hash)

	if err := row.Scan(&t.ID, &t.AccountID, &t.Name, &t.Hash, &t.IssuedAt, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select token by hash: %w", err)
	}
	t.ExpiresAt = expiresAt

	return t, nil
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
