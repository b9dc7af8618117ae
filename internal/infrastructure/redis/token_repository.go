// Package redis stores session tokens in Redis. Each token lives under its
// own key and every account keeps a set of the token keys it owns.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-auth-api/internal/domain/entity"
	"github.com/oksasatya/go-auth-api/internal/domain/repository"
	"github.com/oksasatya/go-auth-api/pkg/helpers"
)

const keyPrefix = "auth:"

func tokenKey(hash string) string       { return keyPrefix + "token:" + hash }
func accountKey(accountID string) string { return keyPrefix + "account:" + accountID + ":tokens" }

// SET NX the token and index it under its account in one step. Members
// whose token key has already expired are pruned, and the account set lives
// as long as its longest-lived token (forever once any token never expires).
// ARGV[2] is the absolute expiry in unix ms, ARGV[3] the remaining ms; both 0
// for none.
var insertScript = redis.NewScript(`
local ok = redis.call("SET", KEYS[1], ARGV[1], "NX")
if not ok then
  return 0
end
local at = tonumber(ARGV[2])
local remaining = tonumber(ARGV[3])
if at > 0 then
  redis.call("PEXPIREAT", KEYS[1], at)
end
for _, k in ipairs(redis.call("SMEMBERS", KEYS[2])) do
  if redis.call("EXISTS", k) == 0 then
    redis.call("SREM", KEYS[2], k)
  end
end
local pttl = redis.call("PTTL", KEYS[2])
redis.call("SADD", KEYS[2], KEYS[1])
if at == 0 then
  redis.call("PERSIST", KEYS[2])
elseif pttl == -2 or (pttl >= 0 and pttl < remaining) then
  redis.call("PEXPIREAT", KEYS[2], at)
end
return 1
`)

// Drop every token key listed in the account set, then the set itself.
// Returns how many token keys actually existed.
var deleteAllScript = redis.NewScript(`
local members = redis.call("SMEMBERS", KEYS[1])
local n = 0
for _, k in ipairs(members) do
  n = n + redis.call("DEL", k)
end
redis.call("DEL", KEYS[1])
return n
`)

type tokenRecord struct {
	ID        string     `json:"id"`
	AccountID string     `json:"account_id"`
	Name      string     `json:"name"`
	Hash      string     `json:"hash"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type TokenRepository struct {
	rdb redis.Cmdable
}

func NewTokenRepository(rdb redis.Cmdable) *TokenRepository {
	return &TokenRepository{rdb: rdb}
}

func (r *TokenRepository) Insert(ctx context.Context, t *entity.SessionToken) error {
	payload, err := json.Marshal(tokenRecord{
		ID:        t.ID,
		AccountID: t.AccountID,
		Name:      t.Name,
		Hash:      t.Hash,
		IssuedAt:  t.IssuedAt,
		ExpiresAt: t.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	var expireAt, remaining int64
	if t.ExpiresAt != nil {
		expireAt = t.ExpiresAt.UnixMilli()
		remaining = max(time.Until(*t.ExpiresAt).Milliseconds(), 1)
	}

	res, err := insertScript.Run(ctx, r.rdb,
		[]string{tokenKey(t.Hash), accountKey(t.AccountID)},
		string(payload), expireAt, remaining,
	).Int()
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	if res == 0 {
		return repository.ErrDuplicateToken
	}
	return nil
}

func (r *TokenRepository) DeleteAllForAccount(ctx context.Context, accountID string) (int64, error) {
	n, err := deleteAllScript.Run(ctx, r.rdb, []string{accountKey(accountID)}).Int64()
	if err != nil {
		return 0, fmt.Errorf("delete tokens: %w", err)
	}
	return n, nil
}

func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*entity.SessionToken, error) {
	var rec tokenRecord
	found, err := helpers.RedisGetJSON(ctx, r.rdb, tokenKey(hash), &rec)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if !found {
		return nil, repository.ErrNotFound
	}
	return &entity.SessionToken{
		ID:        rec.ID,
		AccountID: rec.AccountID,
		Name:      rec.Name,
		Hash:      rec.Hash,
		IssuedAt:  rec.IssuedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
