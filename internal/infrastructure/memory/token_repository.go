package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/go-auth-api/internal/domain/entity"
	"github.com/oksasatya/go-auth-api/internal/domain/repository"
)

type TokenRepository struct {
	mu     sync.RWMutex
	byHash map[string]entity.SessionToken
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{byHash: make(map[string]entity.SessionToken)}
}

func (r *TokenRepository) Insert(_ context.Context, t *entity.SessionToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byHash[t.Hash]; ok {
		return repository.ErrDuplicateToken
	}
	r.byHash[t.Hash] = *t
	return nil
}

func (r *TokenRepository) DeleteAllForAccount(_ context.Context, accountID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for h, t := range r.byHash {
		if t.AccountID == accountID {
			delete(r.byHash, h)
			n++
		}
	}
	return n, nil
}

func (r *TokenRepository) FindByHash(_ context.Context, hash string) (*entity.SessionToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byHash[hash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

// CountForAccount returns how many tokens accountID currently holds.
func (r *TokenRepository) CountForAccount(accountID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, t := range r.byHash {
		if t.AccountID == accountID {
			n++
		}
	}
	return n
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
