package store_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/mkFocus/internal/store"
)

func backends(t *testing.T) map[string]store.KV {
	t.Helper()
	sq, err := store.NewSQLite(filepath.Join(t.TempDir(), "focus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]store.KV{
		"memory": store.NewMemory(),
		"sqlite": sq,
	}
}

func TestKV_GetMissing(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get("nope")
			assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
		})
	}
}

func TestKV_SetThenGet(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set(store.KeyStreak, []byte(`{"2026-01-01":2}`)))
			require.NoError(t, kv.Set(store.KeyStreak, []byte(`{"2026-01-01":3}`)))

			got, err := kv.Get(store.KeyStreak)
			require.NoError(t, err)
			assert.JSONEq(t, `{"2026-01-01":3}`, string(got))
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.db")

	s1, err := store.NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(store.KeyTasks, []byte(`[]`)))
	require.NoError(t, s1.Close())

	s2, err := store.NewSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(store.KeyTasks)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestMemory_SetErr(t *testing.T) {
	m := store.NewMemory()
	m.SetErr = errors.New("disk full")

	assert.EqualError(t, m.Set("k", []byte("v")), "disk full")
	_, err := m.Get("k")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
