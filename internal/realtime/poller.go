package realtime

import (
	"context"
	"sync"
	"time"

	"qr-ordering/internal/common/logger"
	"qr-ordering/internal/config"
	"qr-ordering/internal/domain"
)

// OrderSource reads order mutations from the store. Rows must come back
// ordered oldest-first so checkpoints only ever move forward.
type OrderSource interface {
	CreatedSince(ctx context.Context, restaurantID string, since time.Time) ([]domain.Order, error)
	UpdatedAfter(ctx context.Context, restaurantID string, after time.Time) ([]domain.Order, error)
}

// Broadcaster is the registry surface the poller publishes through.
type Broadcaster interface {
	BroadcastOrderCreated(o domain.Order)
	BroadcastOrderStatusChanged(o domain.Order)
}

// Poller approximates push notifications by periodically diffing order state
// against per-restaurant checkpoints, for restaurants that currently have at
// least one live dashboard. Missed cycles and duplicate deliveries are
// acceptable; the loop must never take the process down.
type Poller struct {
	store   OrderSource
	notify  Broadcaster
	tenants func() ([]string, error)
	log     *logger.Logger

	interval      time.Duration
	retryInterval time.Duration
	lookback      time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// touched only by the run goroutine while it is alive
	checkpoints map[string]time.Time
}

func NewPoller(store OrderSource, notify Broadcaster, tenants func() ([]string, error), cfg config.Realtime, log *logger.Logger) *Poller {
	return &Poller{
		store:         store,
		notify:        notify,
		tenants:       tenants,
		log:           log,
		interval:      cfg.PollInterval.Std(),
		retryInterval: cfg.RetryInterval.Std(),
		lookback:      cfg.Lookback.Std(),
	}
}

// Start launches the loop. Starting an already-running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.running = true
	p.cancel = cancel
	p.done = make(chan struct{})
	p.checkpoints = make(map[string]time.Time)
	go p.run(ctx)
	p.log.Info("realtime_poller_started", nil)
}

// Stop cancels the loop and waits for the current cycle to wind down, then
// drops all checkpoints. Stopping a stopped poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done

	p.mu.Lock()
	p.checkpoints = nil
	p.mu.Unlock()
	p.log.Info("realtime_poller_stopped", nil)
}

func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	for {
		sleep := p.interval
		if err := p.cycle(ctx); err != nil {
			p.log.Error("realtime_cycle_failed", err, nil)
			sleep = p.retryInterval
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
		}
	}
}

// cycle runs one detection pass. Only a failure to list active restaurants
// aborts the pass; per-restaurant failures are contained in checkRestaurant.
func (p *Poller) cycle(ctx context.Context) error {
	ids, err := p.tenants()
	if err != nil {
		return err
	}
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		p.checkRestaurant(ctx, id)
	}
	return nil
}

func (p *Poller) checkRestaurant(ctx context.Context, restaurantID string) {
	checkpoint, seen := p.checkpoints[restaurantID]

	var orders []domain.Order
	var err error
	if seen {
		orders, err = p.store.UpdatedAfter(ctx, restaurantID, checkpoint)
	} else {
		orders, err = p.store.CreatedSince(ctx, restaurantID, time.Now().UTC().Add(-p.lookback))
	}
	if err != nil {
		// This restaurant misses the cycle; the checkpoint stays put so the
		// next successful poll re-scans everything since it.
		p.log.Error("realtime_query_failed", err, map[string]any{"restaurant_id": restaurantID})
		return
	}

	for _, o := range orders {
		if isStatusChange(o) {
			p.notify.BroadcastOrderStatusChanged(o)
		} else {
			p.notify.BroadcastOrderCreated(o)
		}
	}

	if len(orders) > 0 {
		p.checkpoints[restaurantID] = eventTime(orders[len(orders)-1])
	}
}

// isStatusChange reports whether the row represents a mutation of an
// existing order rather than a fresh insert.
func isStatusChange(o domain.Order) bool {
	return o.UpdatedAt != nil && o.UpdatedAt.After(o.CreatedAt)
}

func eventTime(o domain.Order) time.Time {
	if o.UpdatedAt != nil {
		return *o.UpdatedAt
	}
	return o.CreatedAt
}
