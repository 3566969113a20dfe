package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/seenimoa/europulse/pkg/models"
)

// Snapshot is one completed aggregation pass.
type Snapshot struct {
	Year        string                  `json:"year,omitempty"`
	Countries   []models.CountryMetrics `json:"countries"`
	Summary     models.SummaryMetrics   `json:"summary"`
	YearOptions []string                `json:"year_options"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// Session holds the current snapshot and serializes refreshes. Each
// refresh is stamped with a generation number; a pass that finishes
// after a newer one started is discarded, so a slow stale pass can
// never overwrite fresher results.
type Session struct {
	agg *Aggregator

	mu       sync.Mutex
	gen      uint64
	snapshot *Snapshot
	onUpdate func(*Snapshot)
}

// NewSession wraps an aggregator in refresh bookkeeping.
func NewSession(agg *Aggregator) *Session {
	return &Session{agg: agg}
}

// OnUpdate registers a callback invoked (outside the session lock's
// critical reads, but serialized) whenever a refresh lands.
func (s *Session) OnUpdate(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Current returns the latest snapshot, or nil before the first
// successful refresh.
func (s *Session) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Refresh runs a full aggregation pass for year and installs the
// result, unless a newer refresh started in the meantime. The returned
// snapshot is the one this pass produced either way.
func (s *Session) Refresh(ctx context.Context, year string) (*Snapshot, error) {
	s.mu.Lock()
	s.gen++
	myGen := s.gen
	s.mu.Unlock()

	metrics, err := s.agg.Aggregate(ctx, year)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Year:        year,
		Countries:   metrics,
		Summary:     s.agg.Summarize(metrics),
		YearOptions: s.agg.YearOptions(ctx),
		GeneratedAt: time.Now(),
	}

	s.mu.Lock()
	stale := myGen != s.gen
	var notify func(*Snapshot)
	if !stale {
		s.snapshot = snap
		notify = s.onUpdate
	}
	s.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
	return snap, nil
}
