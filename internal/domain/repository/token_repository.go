package repository

import (
	"context"

	"github.com/oksasatya/go-auth-api/internal/domain/entity"
)

// TokenRepository persists issued session tokens.
type TokenRepository interface {
	// Insert stores t. A hash clash is reported as ErrDuplicateToken.
	Insert(ctx context.Context, t *entity.SessionToken) error

	// DeleteAllForAccount revokes every token owned by accountID and returns
	// how many were removed. Zero is not an error.
	DeleteAllForAccount(ctx context.Context, accountID string) (int64, error)

	// FindByHash returns ErrNotFound when no token has the given hash.
	FindByHash(ctx context.Context, hash string) (*entity.SessionToken, error)
}
