package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-ordering/internal/common/logger"
	"qr-ordering/internal/config"
	"qr-ordering/internal/domain"
)

type fakeStore struct {
	mu           sync.Mutex
	created      map[string][]domain.Order
	updated      map[string][]domain.Order
	createdCalls []time.Time
	updatedCalls []time.Time
	err          error
}

func (s *fakeStore) CreatedSince(_ context.Context, restaurantID string, since time.Time) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createdCalls = append(s.createdCalls, since)
	if s.err != nil {
		return nil, s.err
	}
	return s.created[restaurantID], nil
}

func (s *fakeStore) UpdatedAfter(_ context.Context, restaurantID string, after time.Time) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedCalls = append(s.updatedCalls, after)
	if s.err != nil {
		return nil, s.err
	}
	return s.updated[restaurantID], nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string // "<type>:<order id>"
}

func (b *fakeBroadcaster) BroadcastOrderCreated(o domain.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, "created:"+o.ID)
}

func (b *fakeBroadcaster) BroadcastOrderStatusChanged(o domain.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, "updated:"+o.ID)
}

func (b *fakeBroadcaster) snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

func testRealtimeConfig() config.Realtime {
	return config.Realtime{
		PollInterval:  config.Duration(5 * time.Millisecond),
		RetryInterval: config.Duration(5 * time.Millisecond),
		Lookback:      config.Duration(5 * time.Minute),
	}
}

func newTestPoller(store OrderSource, notify Broadcaster, tenants func() ([]string, error)) *Poller {
	return NewPoller(store, notify, tenants, testRealtimeConfig(), logger.New("test"))
}

func pollOrder(id string, createdAt time.Time, updatedAt *time.Time) domain.Order {
	return domain.Order{ID: id, RestaurantID: "r1", CreatedAt: createdAt, UpdatedAt: updatedAt}
}

func TestStartStopIdempotent(t *testing.T) {
	p := newTestPoller(&fakeStore{}, &fakeBroadcaster{}, func() ([]string, error) { return nil, nil })

	p.Start()
	p.Start() // second start must not spawn a second loop
	assert.True(t, p.IsRunning())

	p.Stop()
	assert.False(t, p.IsRunning())
	p.Stop() // stopping a stopped poller is a no-op
}

func TestLoopPollsUntilStopped(t *testing.T) {
	polled := make(chan struct{}, 16)
	p := newTestPoller(&fakeStore{}, &fakeBroadcaster{}, func() ([]string, error) {
		select {
		case polled <- struct{}{}:
		default:
		}
		return nil, nil
	})

	p.Start()
	defer p.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-polled:
		case <-time.After(time.Second):
			t.Fatal("poller did not run a cycle in time")
		}
	}
}

func TestFirstPollSeedsFromLookbackWindow(t *testing.T) {
	store := &fakeStore{}
	p := newTestPoller(store, &fakeBroadcaster{}, nil)
	p.checkpoints = make(map[string]time.Time)

	before := time.Now().UTC()
	p.checkRestaurant(context.Background(), "r1")

	require.Len(t, store.createdCalls, 1)
	since := store.createdCalls[0]
	assert.WithinDuration(t, before.Add(-5*time.Minute), since, time.Second)
	assert.Empty(t, store.updatedCalls)
}

func TestClassificationNewVersusUpdated(t *testing.T) {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	sameAsCreated := created
	later := created.Add(time.Minute)

	store := &fakeStore{created: map[string][]domain.Order{"r1": {
		pollOrder("fresh", created, nil),
		pollOrder("touched-on-insert", created, &sameAsCreated),
		pollOrder("progressed", created, &later),
	}}}
	notify := &fakeBroadcaster{}
	p := newTestPoller(store, notify, nil)
	p.checkpoints = make(map[string]time.Time)

	p.checkRestaurant(context.Background(), "r1")

	assert.Equal(t, []string{
		"created:fresh",
		"created:touched-on-insert",
		"updated:progressed",
	}, notify.snapshot())
}

func TestCheckpointAdvancesToLastRow(t *testing.T) {
	t1 := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Minute)

	store := &fakeStore{created: map[string][]domain.Order{"r1": {
		pollOrder("o1", t1, nil),
		pollOrder("o2", t2, nil),
	}}}
	notify := &fakeBroadcaster{}
	p := newTestPoller(store, notify, nil)
	p.checkpoints = make(map[string]time.Time)

	// first pass: both rows broadcast oldest-first, checkpoint lands on t2
	p.checkRestaurant(context.Background(), "r1")
	assert.Equal(t, []string{"created:o1", "created:o2"}, notify.snapshot())
	assert.Equal(t, t2, p.checkpoints["r1"])

	// second pass queries strictly after the checkpoint
	p.checkRestaurant(context.Background(), "r1")
	require.Len(t, store.updatedCalls, 1)
	assert.Equal(t, t2, store.updatedCalls[0])
}

func TestCheckpointPrefersUpdatedAt(t *testing.T) {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	updated := created.Add(3 * time.Minute)

	store := &fakeStore{created: map[string][]domain.Order{"r1": {
		pollOrder("o1", created, &updated),
	}}}
	p := newTestPoller(store, &fakeBroadcaster{}, nil)
	p.checkpoints = make(map[string]time.Time)

	p.checkRestaurant(context.Background(), "r1")
	assert.Equal(t, updated, p.checkpoints["r1"])
}

func TestQueryFailureKeepsCheckpoint(t *testing.T) {
	t1 := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{created: map[string][]domain.Order{"r1": {pollOrder("o1", t1, nil)}}}
	notify := &fakeBroadcaster{}
	p := newTestPoller(store, notify, nil)
	p.checkpoints = make(map[string]time.Time)

	p.checkRestaurant(context.Background(), "r1")
	require.Equal(t, t1, p.checkpoints["r1"])

	store.mu.Lock()
	store.err = errors.New("store down")
	store.mu.Unlock()

	p.checkRestaurant(context.Background(), "r1")
	assert.Equal(t, t1, p.checkpoints["r1"], "failed poll must not advance the checkpoint")
	assert.Equal(t, []string{"created:o1"}, notify.snapshot())
}

func TestTenantFailureDoesNotBlockOthers(t *testing.T) {
	t1 := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	store := &failFirstStore{
		fail: "r1",
		rows: map[string][]domain.Order{"r2": {{ID: "o2", RestaurantID: "r2", CreatedAt: t1}}},
	}
	notify := &fakeBroadcaster{}
	p := newTestPoller(store, notify, func() ([]string, error) { return []string{"r1", "r2"}, nil })
	p.checkpoints = make(map[string]time.Time)

	require.NoError(t, p.cycle(context.Background()))
	assert.Equal(t, []string{"created:o2"}, notify.snapshot())
}

func TestCycleReportsTenantListingFailure(t *testing.T) {
	p := newTestPoller(&fakeStore{}, &fakeBroadcaster{}, func() ([]string, error) {
		return nil, errors.New("registry unavailable")
	})
	p.checkpoints = make(map[string]time.Time)

	assert.Error(t, p.cycle(context.Background()))
}

func TestStopClearsCheckpoints(t *testing.T) {
	p := newTestPoller(&fakeStore{}, &fakeBroadcaster{}, func() ([]string, error) { return nil, nil })
	p.Start()
	p.Stop()
	assert.Nil(t, p.checkpoints)
}

type failFirstStore struct {
	fail string
	rows map[string][]domain.Order
}

func (s *failFirstStore) CreatedSince(_ context.Context, restaurantID string, _ time.Time) ([]domain.Order, error) {
	if restaurantID == s.fail {
		return nil, errors.New("query failed")
	}
	return s.rows[restaurantID], nil
}

func (s *failFirstStore) UpdatedAfter(_ context.Context, restaurantID string, _ time.Time) ([]domain.Order, error) {
	if restaurantID == s.fail {
		return nil, errors.New("query failed")
	}
	return s.rows[restaurantID], nil
}
