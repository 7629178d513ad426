package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/telemetry-bridge/internal/telemetry"
	"github.com/roman-kulish/telemetry-bridge/internal/trampoline"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()

	store := NewSqliteStore(filepath.Join(t.TempDir(), "conformance.sqlite"))
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestSqliteStore_Sessions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id1, err := store.CreateSession(ctx, "run-1", "first", map[string]int{"workers": 2})
	require.NoError(t, err)
	id2, err := store.CreateSession(ctx, "run-2", "second", nil)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	sess, err := store.Session(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "run-1", sess.RunID)
	assert.Equal(t, "first", sess.Name)
	require.NotNil(t, sess.Config)
	assert.JSONEq(t, `{"workers": 2}`, *sess.Config)
	assert.WithinDuration(t, time.Now(), sess.StartTime, time.Minute)

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, id1, sessions[0].ID)
	assert.Equal(t, id2, sessions[1].ID)
	assert.Nil(t, sessions[1].Config)

	_, err = store.Session(ctx, 42)
	assert.Error(t, err)
}

func TestSqliteStore_Dispatches(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sessionID, err := store.CreateSession(ctx, "run", "dispatches", `{"repeat":1}`)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	in := []Dispatch{
		{
			Timestamp: now,
			Scenario:  "link",
			Worker:    0,
			Sent:      telemetry.LinkStats{RSSI1: -42, RSSI2: -50, LinkQuality: 98, SNR: 12},
			Observed:  telemetry.LinkStats{RSSI1: -42, RSSI2: -50, LinkQuality: 98, SNR: 12},
			Matched:   true,
			Elapsed:   1500 * time.Nanosecond,
		},
		{
			Timestamp: now,
			Scenario:  "battery",
			Worker:    1,
			Sent:      telemetry.Battery{Voltage: 16.8, Current: -2.5, Remaining: 87},
			Observed:  telemetry.Battery{Voltage: 16.8, Current: -2.5, Remaining: 86},
			Matched:   false,
			Elapsed:   2500 * time.Nanosecond,
		},
		{
			Timestamp: now,
			Scenario:  "gps",
			Worker:    2,
			Sent:      telemetry.GPS{Latitude: 37.7749, Longitude: -122.4194, Altitude: 30, Satellites: 9, GroundSpeed: 4.2},
			Matched:   false,
			Elapsed:   time.Microsecond,
		},
	}
	require.NoError(t, store.StoreDispatches(ctx, sessionID, in))

	out, err := store.Dispatches(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i, d := range out {
		assert.Equal(t, sessionID, d.SessionID)
		assert.Equal(t, in[i].Scenario, d.Scenario)
		assert.Equal(t, in[i].Worker, d.Worker)
		assert.Equal(t, in[i].Sent, d.Sent)
		assert.Equal(t, in[i].Observed, d.Observed)
		assert.Equal(t, in[i].Matched, d.Matched)
		assert.Equal(t, in[i].Elapsed, d.Elapsed)
		assert.True(t, in[i].Timestamp.Equal(d.Timestamp))
	}

	mismatched, err := store.Dispatches(ctx, sessionID, WithMismatchesOnly())
	require.NoError(t, err)
	assert.Len(t, mismatched, 2)

	gps, err := store.Dispatches(ctx, sessionID, WithCategory(trampoline.CategoryGPS))
	require.NoError(t, err)
	require.Len(t, gps, 1)
	assert.Nil(t, gps[0].Observed)

	link, err := store.Dispatches(ctx, sessionID, WithScenario("link"), WithMismatchesOnly())
	require.NoError(t, err)
	assert.Empty(t, link)

	summary, err := store.Summary(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, []CategorySummary{
		{Category: "battery", Dispatches: 1, Mismatches: 1, AvgElapsed: 2500 * time.Nanosecond},
		{Category: "gps", Dispatches: 1, Mismatches: 1, AvgElapsed: time.Microsecond},
		{Category: "linkstats", Dispatches: 1, Mismatches: 0, AvgElapsed: 1500 * time.Nanosecond},
	}, summary)
}

func TestSqliteStore_StoreDispatchesLargeBatch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sessionID, err := store.CreateSession(ctx, "run", "large", nil)
	require.NoError(t, err)

	in := make([]Dispatch, maxRowsPerInsert*2+7)
	for i := range in {
		in[i] = Dispatch{
			Timestamp: time.Now(),
			Scenario:  "attitude",
			Sent:      telemetry.Attitude{Pitch: float32(i)},
			Observed:  telemetry.Attitude{Pitch: float32(i)},
			Matched:   true,
		}
	}
	require.NoError(t, store.StoreDispatches(ctx, sessionID, in))

	summary, err := store.Summary(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, int64(len(in)), summary[0].Dispatches)
	assert.Zero(t, summary[0].Mismatches)
}

func TestSqliteStore_StoreDispatchesRejectsEmptyFrame(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sessionID, err := store.CreateSession(ctx, "run", "invalid", nil)
	require.NoError(t, err)

	err = store.StoreDispatches(ctx, sessionID, []Dispatch{
		{Sent: telemetry.Battery{}},
		{Scenario: "no frame"},
	})
	require.Error(t, err)

	out, err := store.Dispatches(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, out, "failed batch must not be partially stored")
}

func TestSqliteStore_CloseTwice(t *testing.T) {
	store := NewSqliteStore(filepath.Join(t.TempDir(), "close.sqlite"))

	_, err := store.CreateSession(context.Background(), "run", "close", nil)
	require.NoError(t, err)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
