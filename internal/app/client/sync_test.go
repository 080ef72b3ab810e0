package client

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"faithkeeper/internal/app/client/connectivity"
	"faithkeeper/internal/app/client/localstore"
	"faithkeeper/internal/app/client/records"
)

type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) SubmitJournalEntry(ctx context.Context, e localstore.JournalEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockDeliverer) SubmitPrayerRequest(ctx context.Context, p localstore.PrayerRequest) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockDeliverer) SubmitCheckin(ctx context.Context, c localstore.DailyCheckin) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockDeliverer) DispatchAction(ctx context.Context, a localstore.PendingAction) error {
	return m.Called(ctx, a).Error(0)
}

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Register(ctx context.Context, tag string, run func(context.Context)) error {
	return m.Called(ctx, tag, run).Error(0)
}

func (m *MockRegistrar) Unregister(tag string) {
	m.Called(tag)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type syncFixture struct {
	service *SyncService
	records *records.Helpers
	monitor *connectivity.Monitor
	remote  *MockDeliverer
}

func newSyncFixture(t *testing.T, online bool, cfg SyncConfig, background BackgroundRegistrar) *syncFixture {
	t.Helper()
	log := testLogger()

	store := localstore.New(filepath.Join(t.TempDir(), "offline.db"), log)
	t.Cleanup(func() { _ = store.Close() })

	helpers := records.New(store, log)
	monitor := connectivity.NewMonitor(online, log)
	remote := &MockDeliverer{}
	if cfg.DeliveryTimeout == 0 {
		cfg.DeliveryTimeout = time.Second
	}

	return &syncFixture{
		service: NewSyncService(helpers, remote, monitor, background, cfg, log),
		records: helpers,
		monitor: monitor,
		remote:  remote,
	}
}

func content(want string) interface{} {
	return mock.MatchedBy(func(e localstore.JournalEntry) bool { return e.Content == want })
}

func TestSyncAll_SkipsWhenOffline(t *testing.T) {
	f := newSyncFixture(t, false, SyncConfig{}, nil)
	ctx := context.Background()

	_, err := f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "x"})
	require.NoError(t, err)

	result, err := f.service.SyncAll(ctx)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, SkipOffline, result.SkipReason)
	assert.True(t, f.service.LastSyncTime().IsZero())
	f.remote.AssertNotCalled(t, "SubmitJournalEntry", mock.Anything, mock.Anything)
}

func TestSyncAll_ConcreteScenario(t *testing.T) {
	f := newSyncFixture(t, false, SyncConfig{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// офлайн: запись сохраняется локально с новым идентификатором
	first, err := f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "grateful today"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	all, err := localstore.GetAll[localstore.JournalEntry](ctx, f.records.Store())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Synced)

	f.remote.On("SubmitJournalEntry", mock.Anything, content("grateful today")).Return(nil).Once()

	f.service.Start(ctx)
	defer f.service.Stop()
	assert.Equal(t, 1, f.service.PendingCount())

	// переход в онлайн запускает проход автоматически
	f.monitor.SetOnline(true)

	require.Eventually(t, func() bool {
		return f.service.PendingCount() == 0 && !f.service.LastSyncTime().IsZero()
	}, 2*time.Second, 10*time.Millisecond)

	stored, ok, err := f.records.JournalEntry(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.Synced)

	// сервер отказывает: вторая запись остается в очереди
	f.remote.On("SubmitJournalEntry", mock.Anything, content("second")).Return(ErrDelivery)

	second, err := f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "second"})
	require.NoError(t, err)
	before, err := f.service.RefreshPendingCount(ctx)
	require.NoError(t, err)

	result, err := f.service.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, before, f.service.PendingCount())

	stored, ok, err = f.records.JournalEntry(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, stored.Synced)

	f.remote.AssertExpectations(t)
}

func TestSyncAll_FixedOrder(t *testing.T) {
	f := newSyncFixture(t, true, SyncConfig{}, nil)
	ctx := context.Background()

	var mu gosync.Mutex
	var order []string
	track := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}

	_, err := f.records.QueueAction(ctx, "prayed", nil)
	require.NoError(t, err)
	_, err = f.records.SaveCheckin(ctx, localstore.DailyCheckin{Mood: 4})
	require.NoError(t, err)
	_, err = f.records.SavePrayerRequest(ctx, localstore.PrayerRequest{Title: "p"})
	require.NoError(t, err)
	_, err = f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "j"})
	require.NoError(t, err)

	f.remote.On("SubmitJournalEntry", mock.Anything, mock.Anything).Run(track("journal")).Return(nil)
	f.remote.On("SubmitPrayerRequest", mock.Anything, mock.Anything).Run(track("prayer")).Return(nil)
	f.remote.On("SubmitCheckin", mock.Anything, mock.Anything).Run(track("checkin")).Return(nil)
	f.remote.On("DispatchAction", mock.Anything, mock.Anything).Run(track("action")).Return(nil)

	result, err := f.service.SyncAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"journal", "prayer", "checkin", "action"}, order)
	assert.Equal(t, 4, result.Delivered)
	assert.Zero(t, result.Pending)

	actions, err := f.records.PendingActions(ctx)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestSyncAll_FailureIsolatedPerRecord(t *testing.T) {
	f := newSyncFixture(t, true, SyncConfig{}, nil)
	ctx := context.Background()

	bad, err := f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "bad"})
	require.NoError(t, err)
	good, err := f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "good"})
	require.NoError(t, err)
	failing, err := f.records.QueueAction(ctx, "attended", nil)
	require.NoError(t, err)

	f.remote.On("SubmitJournalEntry", mock.Anything, content("bad")).Return(errors.New("connection reset"))
	f.remote.On("SubmitJournalEntry", mock.Anything, content("good")).Return(nil)
	f.remote.On("DispatchAction", mock.Anything, mock.Anything).Return(ErrDelivery)

	result, err := f.service.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 2, result.Pending)
	assert.False(t, result.Success())

	unsynced, err := f.records.UnsyncedJournalEntries(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, bad.ID, unsynced[0].ID)

	stored, _, err := f.records.JournalEntry(ctx, good.ID)
	require.NoError(t, err)
	assert.True(t, stored.Synced)

	actions, err := f.records.PendingActions(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, failing.ID, actions[0].ID)
}

func TestSyncAll_RetriesOnNextPass(t *testing.T) {
	f := newSyncFixture(t, true, SyncConfig{}, nil)
	ctx := context.Background()

	e, err := f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "retry me"})
	require.NoError(t, err)

	f.remote.On("SubmitJournalEntry", mock.Anything, content("retry me")).Return(ErrDelivery).Once()
	_, err = f.service.SyncAll(ctx)
	require.NoError(t, err)

	unsynced, err := f.records.UnsyncedJournalEntries(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, e.ID, unsynced[0].ID)
	assert.Equal(t, e.Content, unsynced[0].Content)

	f.remote.On("SubmitJournalEntry", mock.Anything, content("retry me")).Return(nil).Once()
	result, err := f.service.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Zero(t, f.service.PendingCount())

	f.remote.AssertNumberOfCalls(t, "SubmitJournalEntry", 2)
}

func TestSyncAll_NoOverlappingPasses(t *testing.T) {
	f := newSyncFixture(t, true, SyncConfig{}, nil)
	ctx := context.Background()

	_, err := f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "once"})
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.remote.On("SubmitJournalEntry", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil).Once()

	done := make(chan *SyncResult)
	go func() {
		result, _ := f.service.SyncAll(ctx)
		done <- result
	}()

	<-entered
	assert.True(t, f.service.IsSyncing())

	second, err := f.service.SyncAll(ctx)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, SkipInProgress, second.SkipReason)

	close(release)
	first := <-done
	assert.Equal(t, 1, first.Delivered)
	assert.False(t, f.service.IsSyncing())

	third, err := f.service.SyncAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, third.Delivered)

	f.remote.AssertNumberOfCalls(t, "SubmitJournalEntry", 1)
}

func TestSyncAll_DeliveryTimeoutReleasesPass(t *testing.T) {
	f := newSyncFixture(t, true, SyncConfig{DeliveryTimeout: 50 * time.Millisecond}, nil)
	ctx := context.Background()

	_, err := f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "hangs"})
	require.NoError(t, err)

	// вызов игнорирует контекст и зависает
	hang := make(chan struct{})
	defer close(hang)
	f.remote.On("SubmitJournalEntry", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-hang }).
		Return(nil)

	start := time.Now()
	result, err := f.service.SyncAll(ctx)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, context.DeadlineExceeded.Error())
	assert.False(t, f.service.IsSyncing())

	unsynced, err := f.records.UnsyncedJournalEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, unsynced, 1)
}

func TestSyncAll_EditDuringDeliveryStaysPending(t *testing.T) {
	f := newSyncFixture(t, true, SyncConfig{}, nil)
	ctx := context.Background()

	e, err := f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "v1"})
	require.NoError(t, err)

	f.remote.On("SubmitJournalEntry", mock.Anything, content("v1")).
		Run(func(mock.Arguments) {
			edited := e
			edited.Content = "v2"
			time.Sleep(time.Millisecond)
			_, err := f.records.SaveJournalEntry(ctx, edited)
			assert.NoError(t, err)
		}).
		Return(nil).Once()

	_, err = f.service.SyncAll(ctx)
	require.NoError(t, err)

	unsynced, err := f.records.UnsyncedJournalEntries(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, "v2", unsynced[0].Content)
}

func TestStart_BackgroundRegistrationFailureIsNotFatal(t *testing.T) {
	registrar := &MockRegistrar{}
	registrar.On("Register", mock.Anything, backgroundTag, mock.Anything).Return(errors.New("not supported"))
	registrar.On("Unregister", backgroundTag).Return()

	f := newSyncFixture(t, false, SyncConfig{}, registrar)
	ctx := context.Background()

	_, err := f.records.SavePrayerRequest(ctx, localstore.PrayerRequest{Title: "healing"})
	require.NoError(t, err)
	f.remote.On("SubmitPrayerRequest", mock.Anything, mock.Anything).Return(nil).Once()

	f.service.Start(ctx)
	f.monitor.SetOnline(true)

	require.Eventually(t, func() bool {
		return f.service.PendingCount() == 0 && !f.service.LastSyncTime().IsZero()
	}, 2*time.Second, 10*time.Millisecond)

	f.service.Stop()
	registrar.AssertExpectations(t)
}

func TestStart_OnlyOfflineToOnlineTriggers(t *testing.T) {
	f := newSyncFixture(t, true, SyncConfig{}, nil)
	ctx := context.Background()

	f.service.Start(ctx)
	defer f.service.Stop()

	// пустая очередь: проход при старте ничего не отправляет
	require.Eventually(t, func() bool {
		return f.service.Stats().TotalSyncs == 1
	}, 2*time.Second, 10*time.Millisecond)

	f.monitor.SetOnline(false)
	f.monitor.SetOnline(true)

	require.Eventually(t, func() bool {
		return f.service.Stats().TotalSyncs == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStop_ReleasesSubscription(t *testing.T) {
	f := newSyncFixture(t, false, SyncConfig{}, nil)

	f.service.Start(context.Background())
	f.service.Start(context.Background())
	assert.Equal(t, 1, f.monitor.Subscribers())

	f.service.Stop()
	f.service.Stop()
	assert.Zero(t, f.monitor.Subscribers())

	// повторный запуск после остановки
	f.service.Start(context.Background())
	assert.Equal(t, 1, f.monitor.Subscribers())
	f.service.Stop()
	assert.Zero(t, f.monitor.Subscribers())
}

func TestSyncStats_Persisted(t *testing.T) {
	statsPath := filepath.Join(t.TempDir(), "sync_stats.json")
	f := newSyncFixture(t, true, SyncConfig{StatsPath: statsPath}, nil)
	ctx := context.Background()

	_, err := f.records.SaveJournalEntry(ctx, localstore.JournalEntry{Content: "x"})
	require.NoError(t, err)
	f.remote.On("SubmitJournalEntry", mock.Anything, mock.Anything).Return(nil)

	_, err = f.service.SyncAll(ctx)
	require.NoError(t, err)
	last := f.service.LastSyncTime()
	require.False(t, last.IsZero())

	reloaded := NewSyncService(f.records, f.remote, f.monitor, nil, SyncConfig{StatsPath: statsPath}, testLogger())
	assert.True(t, last.Equal(reloaded.LastSyncTime()))
	assert.Equal(t, 1, reloaded.Stats().TotalSyncs)
	assert.Equal(t, 1, reloaded.Stats().TotalDelivered)

	reloaded.ResetStats()
	assert.Zero(t, reloaded.Stats().TotalSyncs)
	again := NewSyncService(f.records, f.remote, f.monitor, nil, SyncConfig{StatsPath: statsPath}, testLogger())
	assert.Zero(t, again.Stats().TotalSyncs)
}
