package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-auth-api/internal/domain/entity"
	"github.com/oksasatya/go-auth-api/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock
}

func TestAccountRepository_Insert(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantID    string
	}{
		{
			name: "inserted",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("Ana", "ana@example.com", "hash", "customer").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
						AddRow("11111111-1111-1111-1111-111111111111", now, now))
			},
			wantID: "11111111-1111-1111-1111-111111111111",
		},
		{
			name: "duplicate email",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("Ana", "ana@example.com", "hash", "customer").
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})
			},
			wantErr: repository.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setupMock(mock)

			a := entity.NewCustomer("Ana", "ana@example.com", "hash")
			err := NewAccountRepository(mock).Insert(context.Background(), a)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, a.ID)
				assert.Equal(t, now, a.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_Insert_OtherError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err := NewAccountRepository(mock).Insert(context.Background(), entity.NewCustomer("Ana", "ana@example.com", "hash"))

	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAccountRepository_FindByEmail(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT id, name, email, password_hash, role, created_at, updated_at\s+FROM users`).
			WithArgs("ana@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
				AddRow("acc-1", "Ana", "ana@example.com", "hash", "customer", now, now))

		a, err := NewAccountRepository(mock).FindByEmail(context.Background(), "ana@example.com")

		require.NoError(t, err)
		assert.Equal(t, "acc-1", a.ID)
		assert.Equal(t, "Ana", a.Name)
		assert.Equal(t, entity.RoleCustomer, a.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM users`).
			WithArgs("ghost@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := NewAccountRepository(mock).FindByEmail(context.Background(), "ghost@example.com")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestTokenRepository_Insert(t *testing.T) {
	tok, _, err := entity.MintSessionToken("acc-1", entity.DefaultTokenName, time.Now(), time.Hour)
	require.NoError(t, err)

	t.Run("inserted", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`INSERT INTO personal_access_tokens`).
			WithArgs(tok.ID, "acc-1", entity.DefaultTokenName, tok.Hash, tok.IssuedAt, tok.ExpiresAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewTokenRepository(mock).Insert(context.Background(), tok))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hash clash", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`INSERT INTO personal_access_tokens`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		err := NewTokenRepository(mock).Insert(context.Background(), tok)
		assert.ErrorIs(t, err, repository.ErrDuplicateToken)
	})
}

func TestTokenRepository_DeleteAllForAccount(t *testing.T) {
	tests := []struct {
		name    string
		deleted int64
	}{
		{name: "several tokens", deleted: 3},
		{name: "no tokens", deleted: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec(`DELETE FROM personal_access_tokens WHERE user_id = \$1`).
				WithArgs("acc-1").
				WillReturnResult(pgxmock.NewResult("DELETE", tt.deleted))

			n, err := NewTokenRepository(mock).DeleteAllForAccount(context.Background(), "acc-1")

			require.NoError(t, err)
			assert.Equal(t, tt.deleted, n)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTokenRepository_DeleteAllForAccount_Error(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM personal_access_tokens`).
		WithArgs("acc-1").
		WillReturnError(errors.New("connection reset"))

	_, err := NewTokenRepository(mock).DeleteAllForAccount(context.Background(), "acc-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestTokenRepository_FindByHash(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expires := issued.Add(time.Hour)

	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM personal_access_tokens`).
			WithArgs("h1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "token_hash", "created_at", "expires_at"}).
				AddRow("tok-1", "acc-1", entity.DefaultTokenName, "h1", issued, &expires))

		got, err := NewTokenRepository(mock).FindByHash(context.Background(), "h1")

		require.NoError(t, err)
		assert.Equal(t, "acc-1", got.AccountID)
		require.NotNil(t, got.ExpiresAt)
		assert.Equal(t, expires, *got.ExpiresAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM personal_access_tokens`).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := NewTokenRepository(mock).FindByHash(context.Background(), "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestAccountRepository_FindByEmail_UnknownRole(t *testing.T) {
	now := time.Now()
	mock := newMock(t)
	mock.ExpectQuery(`FROM users`).
		WithArgs("ana@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow("acc-1", "Ana", "ana@example.com", "hash", "superuser", now, now))

	_, err := NewAccountRepository(mock).FindByEmail(context.Background(), "ana@example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}
