package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	store, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	store.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { store.Close() })
	_, err = store.DB().ExecContext(ctx, `CREATE TABLE gym_logs (id INTEGER PRIMARY KEY, user_id TEXT, date TEXT, duration_minutes INTEGER)`)
	require.NoError(t, err)
	return store
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Insert(ctx, "gym_logs", map[string]any{"user_id": "u1", "date": "2025-01-01", "duration_minutes": 60}))
	require.NoError(t, store.Insert(ctx, "gym_logs", map[string]any{"user_id": "u2", "date": "2025-01-01", "duration_minutes": 30}))

	rows, err := store.Select(ctx, "gym_logs", []string{"*"}, map[string]any{"user_id": "u1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "u1", rows[0]["user_id"])
	assert.EqualValues(t, 60, rows[0]["duration_minutes"])

	rows, err = store.Select(ctx, "gym_logs", []string{"date"}, map[string]any{"user_id": "nobody"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = store.Select(ctx, "gym_logs", []string{"date", "duration_minutes"}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.NotContains(t, rows[0], "user_id")
}

func TestSelectRejectsIdentifiers(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Select(context.Background(), "gym_logs; DROP TABLE x", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
	_, err = store.Select(context.Background(), "gym_logs", nil, map[string]any{"user_id = 1 OR 1": 1})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Insert(ctx, "gym_logs", map[string]any{"user_id": "u1", "date": "2025-01-01", "duration_minutes": 60}))
	require.NoError(t, store.Insert(ctx, "gym_logs", map[string]any{"user_id": "u1", "date": "2025-01-02", "duration_minutes": 30}))

	rows, err := store.Query(ctx, "SELECT SUM(duration_minutes) AS total FROM gym_logs WHERE user_id = 'u1';")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 90, rows[0]["total"])

	_, err = store.Query(ctx, "DELETE FROM gym_logs")
	assert.ErrorIs(t, err, ErrNotReadOnly)
}

func TestIsReadOnly(t *testing.T) {
	cases := map[string]bool{
		"SELECT 1":                             true,
		"  select * from gym_logs;  ":          true,
		"WITH x AS (SELECT 1) SELECT * FROM x": true,
		"SELECT 1; DROP TABLE gym_logs":        false,
		"UPDATE gym_logs SET date = ''":        false,
		"":                                     false,
	}
	for query, expect := range cases {
		assert.Equal(t, expect, IsReadOnly(query), query)
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "")
	assert.Error(t, err)
}
