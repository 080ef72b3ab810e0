package localstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPut_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Put(ctx, s, JournalEntry{ID: "j1", Content: "first"}))
	require.NoError(t, Put(ctx, s, JournalEntry{ID: "j1", Content: "second"}))

	n, err := Count[JournalEntry](ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, ok, err := Get[JournalEntry](ctx, s, "j1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", got.Content)
}

func TestPut_EmptyKey(t *testing.T) {
	s := newTestStore(t)

	err := Put(context.Background(), s, JournalEntry{Content: "no id"})
	assert.ErrorIs(t, err, ErrStorage)
}

func TestAdd_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Add(ctx, s, PendingAction{ID: "a1", ActionType: "prayed"}))

	err := Add(ctx, s, PendingAction{ID: "a1", ActionType: "prayed"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	n, err := Count[PendingAction](ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGet_Missing(t *testing.T) {
	s := newTestStore(t)

	got, ok, err := Get[PrayerRequest](context.Background(), s, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got.ID)
}

func TestGetAll_Snapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Put(ctx, s, PrayerRequest{ID: "p1", Title: "a", Status: PrayerActive}))
	require.NoError(t, Put(ctx, s, PrayerRequest{ID: "p2", Title: "b", Status: PrayerActive}))

	all, err := GetAll[PrayerRequest](ctx, s)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, Put(ctx, s, PrayerRequest{ID: "p3", Title: "c", Status: PrayerActive}))
	assert.Len(t, all, 2)
}

func TestGetByIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Put(ctx, s, JournalEntry{ID: "j1", Synced: false}))
	require.NoError(t, Put(ctx, s, JournalEntry{ID: "j2", Synced: true}))
	require.NoError(t, Put(ctx, s, JournalEntry{ID: "j3", Synced: false}))

	unsynced, err := GetByIndex[JournalEntry](ctx, s, IndexSynced, false)
	require.NoError(t, err)
	require.Len(t, unsynced, 2)
	assert.Equal(t, "j1", unsynced[0].ID)
	assert.Equal(t, "j3", unsynced[1].ID)

	synced, err := GetByIndex[JournalEntry](ctx, s, IndexSynced, true)
	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, "j2", synced[0].ID)

	n, err := CountByIndex[JournalEntry](ctx, s, IndexSynced, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGetByIndex_NoMatch(t *testing.T) {
	s := newTestStore(t)

	got, err := GetByIndex[PrayerRequest](context.Background(), s, IndexStatus, "answered")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetByIndex_Unknown(t *testing.T) {
	s := newTestStore(t)

	_, err := GetByIndex[JournalEntry](context.Background(), s, IndexStatus, "x")
	assert.ErrorIs(t, err, ErrUnknownIndex)
}

func TestUniqueDateIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Put(ctx, s, DailyCheckin{ID: "c1", Date: "2026-10-19"}))

	err := Put(ctx, s, DailyCheckin{ID: "c2", Date: "2026-10-19"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	same, err := GetByIndex[DailyCheckin](ctx, s, IndexDate, "2026-10-19")
	require.NoError(t, err)
	require.Len(t, same, 1)
	assert.Equal(t, "c1", same[0].ID)

	// обновление по тому же ключу допустимо
	require.NoError(t, Put(ctx, s, DailyCheckin{ID: "c1", Date: "2026-10-19", Notes: "again"}))
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := Update(ctx, s, PrayerRequest{ID: "p1", Synced: true})
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := Count[PrayerRequest](ctx, s)
	require.NoError(t, err)
	assert.Zero(t, n, "update must not create records")

	require.NoError(t, Put(ctx, s, PrayerRequest{ID: "p1", Status: PrayerActive}))
	ok, err = Update(ctx, s, PrayerRequest{ID: "p1", Status: PrayerActive, Synced: true})
	require.NoError(t, err)
	assert.True(t, ok)

	synced, err := GetByIndex[PrayerRequest](ctx, s, IndexSynced, true)
	require.NoError(t, err)
	assert.Len(t, synced, 1)
}

func TestDelete_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Put(ctx, s, PendingAction{ID: "a1", ActionType: "prayed"}))
	require.NoError(t, Delete[PendingAction](ctx, s, "a1"))
	require.NoError(t, Delete[PendingAction](ctx, s, "a1"))
	require.NoError(t, Delete[PendingAction](ctx, s, "never-existed"))

	n, err := Count[PendingAction](ctx, s)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Put(ctx, s, JournalEntry{ID: "j1"}))
	require.NoError(t, Put(ctx, s, PrayerRequest{ID: "p1"}))

	require.NoError(t, Clear[JournalEntry](ctx, s))

	n, err := Count[JournalEntry](ctx, s)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = Count[PrayerRequest](ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "clear touches only its own collection")
}

func TestDeleteBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	for i, age := range []time.Duration{time.Hour, 48 * time.Hour, 72 * time.Hour} {
		c := CachedContent{
			Key:      "sermon-" + string(rune('a'+i)),
			Type:     "sermon",
			Payload:  json.RawMessage(`{}`),
			CachedAt: now.Add(-age),
		}
		require.NoError(t, Put(ctx, s, c))
	}

	removed, err := DeleteBefore[CachedContent](ctx, s, IndexCachedAt, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left, err := GetAll[CachedContent](ctx, s)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "sermon-a", left[0].Key)
}

func TestRoundTripPreservesFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC)

	in := DailyCheckin{
		ID:        "c1",
		Date:      "2026-10-19",
		Mood:      4,
		Practices: []string{"prayer", "scripture"},
		Notes:     "quiet morning",
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, Put(ctx, s, in))

	out, ok, err := Get[DailyCheckin](ctx, s, "c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in.Practices, out.Practices)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.Mood, out.Mood)
}
