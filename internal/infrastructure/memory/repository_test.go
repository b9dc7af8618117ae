package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-auth-api/internal/domain/entity"
	"github.com/oksasatya/go-auth-api/internal/domain/repository"
)

func TestAccountRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository()

	a := entity.NewCustomer("Ana", "ana@example.com", "hash")
	require.NoError(t, r.Insert(ctx, a))
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	got, err := r.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, entity.RoleCustomer, got.Role)

	_, err = r.FindByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccountRepository_ConcurrentDuplicateInsert(t *testing.T) {
	ctx := context.Background()
	r := NewAccountRepository()

	var ok, dup atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.Insert(ctx, entity.NewCustomer("Ana", "ana@example.com", "hash"))
			switch {
			case err == nil:
				ok.Add(1)
			case assert.ErrorIs(t, err, repository.ErrDuplicateEmail):
				dup.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(15), dup.Load())
	assert.Equal(t, 1, r.Count())
}

func TestTokenRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewTokenRepository()

	t1, _, err := entity.MintSessionToken("acc-1", entity.DefaultTokenName, time.Now(), 0)
	require.NoError(t, err)
	t2, _, err := entity.MintSessionToken("acc-1", entity.DefaultTokenName, time.Now(), 0)
	require.NoError(t, err)
	other, _, err := entity.MintSessionToken("acc-2", entity.DefaultTokenName, time.Now(), 0)
	require.NoError(t, err)

	require.NoError(t, r.Insert(ctx, t1))
	require.NoError(t, r.Insert(ctx, t2))
	require.NoError(t, r.Insert(ctx, other))
	assert.ErrorIs(t, r.Insert(ctx, t1), repository.ErrDuplicateToken)

	got, err := r.FindByHash(ctx, t2.Hash)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got.AccountID)

	n, err := r.DeleteAllForAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 0, r.CountForAccount("acc-1"))
	assert.Equal(t, 1, r.CountForAccount("acc-2"))

	n, err = r.DeleteAllForAccount(ctx, "acc-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = r.FindByHash(ctx, t1.Hash)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccountRepository_RejectsUnknownRole(t *testing.T) {
	r := NewAccountRepository()
	a := entity.NewCustomer("Ana", "ana@example.com", "hash")
	a.Role = "superuser"

	err := r.Insert(context.Background(), a)

	assert.Error(t, err)
	assert.Equal(t, 0, r.Count())
}
