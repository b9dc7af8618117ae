// Package memory holds process-local repositories for development runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-auth-api/internal/domain/entity"
	"github.com/oksasatya/go-auth-api/internal/domain/repository"
)

type AccountRepository struct {
	mu      sync.RWMutex
	byEmail map[string]entity.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byEmail: make(map[string]entity.Account)}
}

func (r *AccountRepository) Insert(_ context.Context, a *entity.Account) error {
	if !a.Role.Valid() {
		return fmt.Errorf("invalid role %q", a.Role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[a.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.byEmail[a.Email] = *a
	return nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

// Count returns the number of stored accounts.
func (r *AccountRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
