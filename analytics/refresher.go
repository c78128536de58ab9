package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-dashboard/models"
)

// Refresher recomputes the dashboard snapshot on a fixed interval and on
// demand. Every fetch carries a sequence number taken when it starts; a
// slow fetch that finishes after a newer one already published is
// discarded, so the visible snapshot only ever moves forward.
type Refresher struct {
	Client *Client
	// Period is fixed at construction; a dashboard polling a different
	// window gets its own refresher.
	Period   string
	Interval time.Duration
	Log      *logrus.Logger

	StopChan chan struct{}
	stopOnce sync.Once

	mu           sync.Mutex
	nextSeq      uint64
	publishedSeq uint64
	snapshot     *models.AnalyticsSnapshot
}

func NewRefresher(client *Client, period string, interval time.Duration, log *logrus.Logger) *Refresher {
	return &Refresher{
		Client:   client,
		Period:   period,
		Interval: interval,
		Log:      log,
		StopChan: make(chan struct{}),
	}
}

// Start runs the polling loop. One refresh fires immediately so the
// dashboard is not empty for a full interval after boot.
func (r *Refresher) Start() {
	go func() {
		r.RefreshNow()

		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.RefreshNow()
			case <-r.StopChan:
				return
			}
		}
	}()
}

// Stop halts the polling loop. In-flight fetches may still complete but
// their results publish through the same stale-guard as always.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.StopChan)
	})
}

// RefreshNow performs one stamped fetch-and-publish cycle.
func (r *Refresher) RefreshNow() {
	r.mu.Lock()
	r.nextSeq++
	seq := r.nextSeq
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	snap, err := r.Client.FetchDashboardAnalytics(ctx, r.Period)
	if err != nil {
		r.Log.Printf("analytics refresh %d failed: %v", seq, err)
		return
	}
	r.publish(seq, snap)
}

func (r *Refresher) publish(seq uint64, snap models.AnalyticsSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.publishedSeq {
		r.Log.Printf("analytics refresh %d superseded by %d, discarding", seq, r.publishedSeq)
		return
	}
	r.publishedSeq = seq
	r.snapshot = &snap
}

// Snapshot returns the latest published snapshot, or nil before the first
// successful refresh.
func (r *Refresher) Snapshot() *models.AnalyticsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot
}
