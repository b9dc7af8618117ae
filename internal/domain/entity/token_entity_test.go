package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintSessionToken(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tok, plain, err := MintSessionToken("acc-1", "", now, 0)
	require.NoError(t, err)

	assert.Len(t, plain, 43)
	assert.Equal(t, "acc-1", tok.AccountID)
	assert.Equal(t, DefaultTokenName, tok.Name)
	assert.Equal(t, HashToken(plain), tok.Hash)
	assert.NotEqual(t, plain, tok.Hash)
	assert.Equal(t, now, tok.IssuedAt)
	assert.Nil(t, tok.ExpiresAt)
	assert.NotEmpty(t, tok.ID)
}

func TestMintSessionToken_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		_, plain, err := MintSessionToken("acc-1", DefaultTokenName, time.Now(), 0)
		require.NoError(t, err)
		_, dup := seen[plain]
		require.False(t, dup, "token minted twice")
		seen[plain] = struct{}{}
	}
}

func TestMintSessionToken_RequiresAccount(t *testing.T) {
	_, _, err := MintSessionToken("", DefaultTokenName, time.Now(), 0)
	assert.Error(t, err)
}

func TestSessionToken_Expiry(t *testing.T) {
	now := time.Now()
	tok, _, err := MintSessionToken("acc-1", DefaultTokenName, now, time.Hour)
	require.NoError(t, err)
	require.NotNil(t, tok.ExpiresAt)

	assert.False(t, tok.IsExpiredAt(now.Add(59*time.Minute)))
	assert.True(t, tok.IsExpiredAt(now.Add(time.Hour)))
}
