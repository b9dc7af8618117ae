package helpers

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	Name string `json:"name"`
}

func TestRedisGetJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, mr.Addr(), "", 0)
	require.NoError(t, err)
	defer func() { _ = rdb.Close() }()

	var got cachedThing
	ok, err := RedisGetJSON(ctx, rdb, "missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mr.Set("thing", `{"name":"widget"}`))
	ok, err = RedisGetJSON(ctx, rdb, "thing", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "widget", got.Name)

	require.NoError(t, mr.Set("broken", `{`))
	_, err = RedisGetJSON(ctx, rdb, "broken", &got)
	assert.Error(t, err)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
