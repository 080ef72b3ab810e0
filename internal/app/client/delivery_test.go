package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	gosync "sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faithkeeper/internal/app/client/connectivity"
	"faithkeeper/internal/app/client/localstore"
	"faithkeeper/internal/app/client/records"
	submissionAPI "faithkeeper/internal/app/server/api/http/submission"
	"faithkeeper/internal/domain/submission"
)

type memRepository struct {
	mu   gosync.Mutex
	rows map[string]submission.Submission
}

func (r *memRepository) Upsert(_ context.Context, s *submission.Submission) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := string(s.Kind) + "/" + s.ID
	_, exists := r.rows[key]
	r.rows[key] = *s
	return !exists, nil
}

func (r *memRepository) get(kind submission.Kind, id string) (submission.Submission, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[string(kind)+"/"+id]
	return s, ok
}

func (r *memRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// newSubmissionServer поднимает настоящие huma-маршруты приёма записей
func newSubmissionServer(t *testing.T) (*httpClient, *memRepository) {
	t.Helper()
	log := testLogger()
	repo := &memRepository{rows: map[string]submission.Submission{}}

	router, api := humatest.New(t)
	submissionAPI.NewHandler(submission.NewService(repo, log), log, huma.Middlewares{}).SetupRoutes(api)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return newHTTPClient(srv.Client(), srv.URL, log), repo
}

func TestHTTPClient_DispatchActionAgainstServer(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		wantPayload string
	}{
		{name: "empty payload", payload: "", wantPayload: `{}`},
		{name: "object payload", payload: `{"prayer_id":"p1"}`, wantPayload: `{"prayer_id":"p1"}`},
		{name: "nested payload", payload: `{"ids":["a","b"],"meta":{"n":2}}`, wantPayload: `{"ids":["a","b"],"meta":{"n":2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote, repo := newSubmissionServer(t)
			a := localstore.PendingAction{ID: "act-1", ActionType: "prayed", CreatedAt: time.Now().UTC()}
			if tt.payload != "" {
				a.Payload = []byte(tt.payload)
			}

			require.NoError(t, remote.DispatchAction(context.Background(), a))
			require.NoError(t, remote.DispatchAction(context.Background(), a))

			stored, ok := repo.get(submission.KindAction, "act-1")
			require.True(t, ok)
			assert.Equal(t, "prayed", stored.ActionType)
			assert.JSONEq(t, tt.wantPayload, string(stored.Payload))
			assert.Equal(t, 1, repo.count())
		})
	}
}

func TestSyncAll_DeliversToServer(t *testing.T) {
	ctx := context.Background()
	log := testLogger()
	remote, repo := newSubmissionServer(t)

	store := localstore.New(filepath.Join(t.TempDir(), "offline.db"), log)
	t.Cleanup(func() { _ = store.Close() })
	helpers := records.New(store, log)
	service := NewSyncService(helpers, remote, connectivity.NewMonitor(true, log), nil,
		SyncConfig{DeliveryTimeout: 5 * time.Second}, log)

	e, err := helpers.SaveJournalEntry(ctx, localstore.JournalEntry{Title: "утро", Content: "благодарю", Tags: []string{"a"}})
	require.NoError(t, err)
	p, err := helpers.SavePrayerRequest(ctx, localstore.PrayerRequest{Title: "за семью"})
	require.NoError(t, err)
	c, err := helpers.SaveCheckin(ctx, localstore.DailyCheckin{Date: "2026-10-19", Mood: 4, Practices: []string{"prayer"}})
	require.NoError(t, err)
	a, err := helpers.QueueAction(ctx, "prayed", nil)
	require.NoError(t, err)

	result, err := service.SyncAll(ctx)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 4, result.Delivered)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Zero(t, result.Pending)

	pending, err := helpers.PendingActions(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	for kind, id := range map[submission.Kind]string{
		submission.KindJournalEntry:  e.ID,
		submission.KindPrayerRequest: p.ID,
		submission.KindCheckin:       c.ID,
		submission.KindAction:        a.ID,
	} {
		_, ok := repo.get(kind, id)
		assert.True(t, ok, "%s %s не доставлена", kind, id)
	}

	result, err = service.SyncAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Delivered)
	assert.Equal(t, 4, repo.count())
}
