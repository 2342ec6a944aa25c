package collect

import (
	"sync/atomic"
	"time"
)

// Stats tracks counters for a collection run. All fields are safe for
// concurrent updates from the fetch workers.
type Stats struct {
	HitsFound   atomic.Int64
	Duplicates  atomic.Int64
	Fetched     atomic.Int64
	FetchErrors atomic.Int64
	Scored      atomic.Int64
	StartTime   time.Time
}

// Snapshot returns a copy of the counters safe for logging.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"hits_found":   s.HitsFound.Load(),
		"duplicates":   s.Duplicates.Load(),
		"fetched":      s.Fetched.Load(),
		"fetch_errors": s.FetchErrors.Load(),
		"scored":       s.Scored.Load(),
		"elapsed":      time.Since(s.StartTime).String(),
	}
}
