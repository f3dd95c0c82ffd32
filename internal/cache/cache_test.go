package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type payload struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(Options{Addr: mr.Addr(), TTL: 300 * time.Second}, zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(context.Background()))
	require.True(t, c.Connected())
	return c, mr
}

func counting(calls *int, v payload) func(context.Context) (payload, error) {
	return func(context.Context) (payload, error) {
		*calls++
		return v, nil
	}
}

func TestGetOrFetch_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0
	want := payload{Total: 10, Active: 7}

	got, err := GetOrFetch(ctx, c, "dashboard:users:lotus", counting(&calls, want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("dashboard:users:lotus"))
	assert.Equal(t, 300*time.Second, mr.TTL("dashboard:users:lotus"))

	got, err = GetOrFetch(ctx, c, "dashboard:users:lotus", counting(&calls, payload{}))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, calls, "second call within TTL must not recompute")
}

func TestGetOrFetch_ExpiredRecomputes(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0

	_, _ = GetOrFetch(ctx, c, "k", counting(&calls, payload{Total: 1}))
	mr.FastForward(301 * time.Second)
	_, _ = GetOrFetch(ctx, c, "k", counting(&calls, payload{Total: 1}))
	assert.Equal(t, 2, calls)
}

func TestGetOrFetch_CorruptValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("k", "{not json"))
	calls := 0

	got, err := GetOrFetch(context.Background(), c, "k", counting(&calls, payload{Total: 3}))
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Total)
	assert.Equal(t, 1, calls)
}

func TestGetOrFetch_FetchErrorNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("db down")

	_, err := GetOrFetch(context.Background(), c, "k", func(context.Context) (payload, error) {
		return payload{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestGetOrFetch_Disconnected(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(Options{Addr: mr.Addr()}, zap.NewNop())
	defer c.Close()
	calls := 0

	for range 3 {
		_, err := GetOrFetch(context.Background(), c, "k", counting(&calls, payload{}))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
	assert.False(t, mr.Exists("k"))
}

func TestGetOrFetch_NilCache(t *testing.T) {
	calls := 0
	_, err := GetOrFetch[payload](context.Background(), nil, "k", counting(&calls, payload{}))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPing_TracksOutage(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
	assert.False(t, c.Connected())
}

func TestClearPrefix(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	for _, k := range []string{"dashboard:users:lotus", "dashboard:courses", "dashboard:monthly:2025:all"} {
		require.NoError(t, mr.Set(k, "{}"))
	}
	require.NoError(t, mr.Set("session:abc", "x"))

	n, err := c.ClearPrefix(ctx, "dashboard:")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, mr.Exists("dashboard:courses"))
	assert.True(t, mr.Exists("session:abc"))

	calls := 0
	_, _ = GetOrFetch(ctx, c, "dashboard:courses", counting(&calls, payload{}))
	assert.Equal(t, 1, calls, "cleared key recomputes")
}

func TestRefresh_OverwritesOnlyItsKey(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("dashboard:users:lotus", `{"total":1,"active":1}`))
	require.NoError(t, mr.Set("dashboard:users:all", `{"total":9,"active":9}`))
	calls := 0

	got, err := Refresh(ctx, c, "dashboard:users:lotus", counting(&calls, payload{Total: 5, Active: 4}))
	require.NoError(t, err)
	assert.Equal(t, payload{Total: 5, Active: 4}, got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 300*time.Second, mr.TTL("dashboard:users:lotus"))
	assert.True(t, mr.Exists("dashboard:users:all"))

	got, err = GetOrFetch(ctx, c, "dashboard:users:lotus", counting(&calls, payload{}))
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Total)
	assert.Equal(t, 1, calls)
}

func TestGetOrFetch_WithRefreshSkipsRead(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("k", `{"total":1,"active":1}`))
	calls := 0

	got, err := GetOrFetch(WithRefresh(context.Background()), c, "k", counting(&calls, payload{Total: 2}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Total)
	assert.Equal(t, 1, calls)
}
