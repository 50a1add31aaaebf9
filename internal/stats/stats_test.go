package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	c := New()

	assert.Equal(t, Accuracy{}, c.Snapshot())

	c.AddShown(4)
	c.IncAccepted()

	snap := c.Snapshot()
	assert.Equal(t, int64(4), snap.TotalShown)
	assert.Equal(t, int64(1), snap.Accepted)
	assert.InDelta(t, 25.0, snap.AccuracyPercent, 1e-9)
}

func TestAcceptedWithoutShown(t *testing.T) {
	c := New()
	c.IncAccepted()

	snap := c.Snapshot()
	assert.Equal(t, int64(1), snap.Accepted)
	assert.Equal(t, 0.0, snap.AccuracyPercent)
}

func TestAddShownIgnoresNonPositive(t *testing.T) {
	c := New()
	c.AddShown(0)
	c.AddShown(-3)

	assert.Equal(t, int64(0), c.Shown())
}

func TestReset(t *testing.T) {
	c := New()
	c.AddShown(10)
	c.IncAccepted()

	c.Reset()

	assert.Equal(t, int64(0), c.Shown())
	assert.Equal(t, int64(0), c.Accepted())
}

func TestConcurrentUpdates(t *testing.T) {
	var c Counters
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.AddShown(2)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncAccepted()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10000), c.Shown())
	assert.Equal(t, int64(5000), c.Accepted())
}
