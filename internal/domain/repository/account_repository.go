package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-auth-api/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateToken = errors.New("token already exists")
)

// AccountRepository persists accounts keyed by a unique email.
// Insert must enforce email uniqueness atomically and report a clash
// as ErrDuplicateEmail. It fills in ID and timestamps on success.
type AccountRepository interface {
	Insert(ctx context.Context, a *entity.Account) error
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
}
