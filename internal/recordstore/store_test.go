package recordstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBackends(t *testing.T) map[string]Store {
	t.Helper()

	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Get(ctx, Sales)
			require.NoError(t, err)
			assert.Nil(t, got, "unwritten blob should read as nil")

			require.NoError(t, store.Put(ctx, Sales, []byte(`[{"id":"1"}]`)))
			got, err = store.Get(ctx, Sales)
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"1"}]`, string(got))

			require.NoError(t, store.Put(ctx, Sales, []byte(`[]`)))
			got, err = store.Get(ctx, Sales)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			other, err := store.Get(ctx, Expenses)
			require.NoError(t, err)
			assert.Nil(t, other)
		})
	}
}

func TestStoreRejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "")
			assert.ErrorIs(t, err, ErrEmptyName)
			assert.ErrorIs(t, store.Put(ctx, "", []byte("x")), ErrEmptyName)
		})
	}
}

func TestMemoryStoreCopiesBlobs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	blob := []byte(`[1]`)
	require.NoError(t, store.Put(ctx, Sales, blob))

	blob[1] = '9'
	got, err := store.Get(ctx, Sales)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, Expenses, []byte(`[{"id":"e1"}]`)))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, Expenses)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"e1"}]`, string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "r.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(ctx, Options{Backend: "sqlite"})
	assert.Error(t, err)
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	rs := NewRedisStore("127.0.0.1:0", "", 0, "pos:")
	defer rs.Close()

	assert.Equal(t, "pos:sales", rs.key(Sales))
}

// TestRedisStoreLive runs against the server in REDIS_ADDR and is skipped
// when none is configured.
func TestRedisStoreLive(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	prefix := fmt.Sprintf("pos-test-%d:", time.Now().UnixNano())
	rs := NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"), 0, prefix)
	defer rs.Close()
	require.NoError(t, rs.Ping(ctx))
	t.Cleanup(func() {
		rs.client.Del(context.Background(), rs.key(Sales), rs.key(Expenses))
	})

	blob, err := rs.Get(ctx, Sales)
	require.NoError(t, err)
	assert.Nil(t, blob)

	require.NoError(t, rs.Put(ctx, Sales, []byte(`[{"id":"s1"}]`)))
	blob, err = rs.Get(ctx, Sales)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"s1"}]`, string(blob))

	require.NoError(t, rs.Put(ctx, Sales, []byte(`[]`)))
	blob, err = rs.Get(ctx, Sales)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(blob))

	_, err = rs.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.ErrorIs(t, rs.Put(ctx, "", nil), ErrEmptyName)

	blob, err = rs.Get(ctx, Expenses)
	require.NoError(t, err)
	assert.Nil(t, blob)
}
