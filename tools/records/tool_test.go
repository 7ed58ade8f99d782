package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/lifelog-agent/components/datastore"
)

var today = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return today }

func newStore(t *testing.T) *datastore.SQLStore {
	t.Helper()
	ctx := context.Background()
	store, err := datastore.Open(ctx, datastore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	store.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { store.Close() })
	_, err = store.DB().ExecContext(ctx, `CREATE TABLE gym_logs (user_id TEXT, date TEXT, duration_minutes INTEGER)`)
	require.NoError(t, err)
	return store
}

type failingStore struct{}

func (failingStore) Select(context.Context, string, []string, map[string]any) ([]datastore.Row, error) {
	return nil, errors.New("connection reset")
}

func (failingStore) Query(context.Context, string, ...any) ([]datastore.Row, error) {
	return nil, errors.New("connection reset")
}

func TestInvoke(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	for _, row := range []map[string]any{
		{"user_id": "u1", "date": "2025-03-09", "duration_minutes": 60},
		{"user_id": "u1", "date": "2025-03-03", "duration_minutes": 45},
		{"user_id": "u1", "date": "2025-02-20", "duration_minutes": 30},
		{"user_id": "u2", "date": "2025-03-09", "duration_minutes": 90},
	} {
		require.NoError(t, store.Insert(ctx, "gym_logs", row))
	}
	tool := New(store, Gym, WithUserID("u1"), WithClock(clock))
	assert.Equal(t, "query_gym_logs", tool.Title())

	got, err := tool.Invoke(ctx, "how much did I train?")
	require.NoError(t, err)
	assert.Equal(t, `Gym logs for the last 7 days: [{"date":"2025-03-09","duration_minutes":60,"user_id":"u1"},{"date":"2025-03-03","duration_minutes":45,"user_id":"u1"}]`, got)
}

func TestInvokeNothingFound(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	tool := New(store, Gym, WithUserID("u1"), WithClock(clock))
	got, err := tool.Invoke(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "No gym logs found.", got)

	require.NoError(t, store.Insert(ctx, "gym_logs", map[string]any{"user_id": "u1", "date": "2024-12-01", "duration_minutes": 60}))
	got, err = tool.Invoke(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "No gym logs found in the last 7 days.", got)
}

func TestInvokeNotConfigured(t *testing.T) {
	got, err := New(failingStore{}, Daily).Invoke(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, got, "not configured")
	assert.Contains(t, got, "query_daily_logs")
}

func TestInvokeWithoutDatabase(t *testing.T) {
	got, err := New(nil, Daily, WithUserID("u1")).Invoke(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "[query_daily_logs] DATABASE_URL is not configured.", got)
}

func TestInvokeStoreError(t *testing.T) {
	_, err := New(failingStore{}, Daily, WithUserID("u1")).Invoke(context.Background(), "")
	assert.ErrorContains(t, err, "connection reset")
}

func TestParseDay(t *testing.T) {
	day, ok := parseDay("2025-03-09T00:00:00Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), day)

	day, ok = parseDay(time.Date(2025, 3, 9, 22, 1, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), day)

	_, ok = parseDay(nil)
	assert.False(t, ok)
	_, ok = parseDay("yesterday")
	assert.False(t, ok)
}
