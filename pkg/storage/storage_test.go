package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedis(client, "bazaar:", time.Hour)
}

func TestStores_RoundTrip(t *testing.T) {
	t.Parallel()

	fileStore, err := NewFile(t.TempDir())
	require.NoError(t, err)
	_, redisStore := newMiniredis(t)

	stores := map[string]Store{
		"memory": NewMemory(),
		"file":   fileStore,
		"redis":  redisStore,
	}

	ctx := context.Background()
	for name, s := range stores {
		_, err := s.Load(ctx, KeyCart)
		assert.ErrorIs(t, err, ErrNotFound, name)

		require.NoError(t, s.Save(ctx, KeyCart, []byte(`[{"id":"p1"}]`)), name)
		require.NoError(t, s.Save(ctx, KeyCart, []byte(`[{"id":"p2"}]`)), name)

		got, err := s.Load(ctx, KeyCart)
		require.NoError(t, err, name)
		assert.JSONEq(t, `[{"id":"p2"}]`, string(got), name)

		require.NoError(t, s.Remove(ctx, KeyCart), name)
		require.NoError(t, s.Remove(ctx, KeyCart), name)
		_, err = s.Load(ctx, KeyCart)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}
}

func TestRedis_PrefixAndTTL(t *testing.T) {
	t.Parallel()

	mr, s := newMiniredis(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, KeySession, []byte(`{"token":"t"}`)))
	assert.True(t, mr.Exists("bazaar:session"))
	assert.Equal(t, time.Hour, mr.TTL("bazaar:session"))

	mr.FastForward(2 * time.Hour)
	_, err := s.Load(ctx, KeySession)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDialRedis(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	s, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0", "p:", 0)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), KeyDarkMode, []byte("true")))
	v, err := mr.Get("p:darkMode")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = DialRedis(context.Background(), "not a url", "p:", 0)
	assert.Error(t, err)
}

func TestFile_RejectsPathKeys(t *testing.T) {
	t.Parallel()

	s, err := NewFile(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, s.Save(context.Background(), "../escape", []byte("x")))
}

func TestMemory_CopiesValues(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	buf := []byte("abc")
	require.NoError(t, s.Save(context.Background(), "k", buf))
	buf[0] = 'z'

	got, err := s.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
