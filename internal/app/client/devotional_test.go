package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faithkeeper/internal/app/client/localstore"
)

func TestReadDevotional(t *testing.T) {
	online := true
	now := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)
	deps := newOfflineDeps(t, &online, &now)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context, date string) (localstore.Devotional, error) {
		calls++
		return localstore.Devotional{ID: date, Date: date, Title: "Rest", Body: "Come to me"}, nil
	}

	got, err := ReadDevotional(ctx, deps, "2026-10-19", fetch, FetchOptions{MaxAge: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, got.Source)
	assert.Equal(t, "Rest", got.Data.Title)

	stored, ok, err := deps.Records.DevotionalForDate(ctx, "2026-10-19")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, now, stored.CachedAt)

	online = false
	now = now.Add(2 * time.Hour)

	got, err = ReadDevotional(ctx, deps, "2026-10-19", fetch, FetchOptions{MaxAge: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, SourceCache, got.Source)
	assert.True(t, got.Stale)
	assert.Equal(t, "Come to me", got.Data.Body)
	assert.Equal(t, 1, calls)
}

func TestReadDevotional_NoData(t *testing.T) {
	online := false
	now := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)
	deps := newOfflineDeps(t, &online, &now)
	ctx := context.Background()

	failing := func(ctx context.Context, date string) (localstore.Devotional, error) {
		return localstore.Devotional{}, errors.New("connection refused")
	}

	_, err := ReadDevotional(ctx, deps, "2026-10-19", failing, FetchOptions{})
	assert.ErrorIs(t, err, ErrOfflineNoData)

	online = true
	_, err = ReadDevotional(ctx, deps, "2026-10-19", failing, FetchOptions{})
	assert.ErrorIs(t, err, ErrLoadFailed)
}
