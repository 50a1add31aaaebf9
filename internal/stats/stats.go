// Package stats keeps the suggestion counters the accuracy report is built from.
package stats

import "sync/atomic"

// Counters tracks how many suggestions were shown and how many of them were
// accepted. The zero value is ready to use and safe for concurrent use.
type Counters struct {
	shown    atomic.Int64
	accepted atomic.Int64
}

// Accuracy is a point-in-time view of the counters.
type Accuracy struct {
	TotalShown      int64   `json:"total_shown"`
	Accepted        int64   `json:"accepted"`
	AccuracyPercent float64 `json:"accuracy_percent"`
}

func New() *Counters {
	return &Counters{}
}

// AddShown adds n shown suggestions. Non-positive values are ignored.
func (c *Counters) AddShown(n int) {
	if n <= 0 {
		return
	}
	c.shown.Add(int64(n))
}

func (c *Counters) IncAccepted() {
	c.accepted.Add(1)
}

func (c *Counters) Shown() int64    { return c.shown.Load() }
func (c *Counters) Accepted() int64 { return c.accepted.Load() }

// Snapshot reports the counters and accepted/shown as a percentage, or 0
// when nothing was shown yet.
func (c *Counters) Snapshot() Accuracy {
	shown := c.shown.Load()
	accepted := c.accepted.Load()

	percent := 0.0
	if shown > 0 {
		percent = float64(accepted) / float64(shown) * 100
	}

	return Accuracy{
		TotalShown:      shown,
		Accepted:        accepted,
		AccuracyPercent: percent,
	}
}

// Reset zeroes both counters.
func (c *Counters) Reset() {
	c.shown.Store(0)
	c.accepted.Store(0)
}
