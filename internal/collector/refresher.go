package collector

import (
	"context"
	"sync"
	"time"

	"github.com/HerbHall/netpanel/internal/event"
	"github.com/HerbHall/netpanel/pkg/models"
	"github.com/HerbHall/netpanel/pkg/plugin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Snapshot is one published aggregation pass.
type Snapshot struct {
	ID          string                `json:"id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Hosts       []models.MetricRecord `json:"hosts"`
}

// Refresher runs aggregation passes on a fixed interval and publishes each
// result on the event bus. Ticks are skipped while nobody is listening.
type Refresher struct {
	agg       *Aggregator
	bus       plugin.Publisher
	listeners func() int
	interval  time.Duration
	logger    *zap.Logger

	mu     sync.RWMutex
	latest *Snapshot

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher creates a refresher. listeners reports how many consumers
// are connected; nil means always refresh.
func NewRefresher(agg *Aggregator, bus plugin.Publisher, listeners func() int, interval time.Duration, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		agg:       agg,
		bus:       bus,
		listeners: listeners,
		interval:  interval,
		logger:    logger,
	}
}

// Start begins the refresh loop. An interval <= 0 disables it.
func (r *Refresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("snapshot push disabled")
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.run(ctx)
	r.logger.Info("snapshot refresher started", zap.Duration("interval", r.interval))
}

// Stop cancels the refresh loop and waits for the current pass to finish.
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.logger.Info("snapshot refresher stopped")
}

// Latest returns the most recent snapshot, or nil before the first pass.
func (r *Refresher) Latest() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.listeners != nil && r.listeners() == 0 {
				continue
			}
			r.Refresh(ctx)
		}
	}
}

// Health implements plugin.HealthChecker. The refresher is degraded when
// the latest snapshot is older than three push intervals.
func (r *Refresher) Health(_ context.Context) plugin.HealthStatus {
	if r.interval <= 0 {
		return plugin.HealthStatus{Status: "healthy", Message: "snapshot push disabled"}
	}
	snap := r.Latest()
	if snap == nil {
		return plugin.HealthStatus{Status: "healthy", Message: "no snapshot yet"}
	}
	details := map[string]string{
		"snapshot_id":  snap.ID,
		"generated_at": snap.GeneratedAt.Format(time.RFC3339),
	}
	if time.Since(snap.GeneratedAt) > 3*r.interval && r.listeners != nil && r.listeners() > 0 {
		return plugin.HealthStatus{Status: "degraded", Message: "snapshot is stale", Details: details}
	}
	return plugin.HealthStatus{Status: "healthy", Details: details}
}

// Refresh runs one aggregation pass and publishes the snapshot.
func (r *Refresher) Refresh(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		ID:    uuid.New().String(),
		Hosts: r.agg.Snapshot(ctx),
	}
	snap.GeneratedAt = time.Now().UTC()

	r.mu.Lock()
	r.latest = snap
	r.mu.Unlock()

	if r.bus != nil {
		if err := r.bus.Publish(ctx, plugin.Event{
			Topic:     event.TopicHostsSnapshot,
			Source:    "collector",
			Timestamp: snap.GeneratedAt,
			Payload:   snap,
		}); err != nil {
			r.logger.Warn("publish snapshot failed", zap.Error(err))
		}
	}
	return snap
}
