package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestVirtualRunsInDueOrder(t *testing.T) {
	v := NewVirtual(epoch)
	var order []string
	v.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	v.AfterFunc(time.Second, func() { order = append(order, "a") })
	v.AfterFunc(2*time.Second, func() { order = append(order, "c") })

	v.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"a"}, order)
	assert.Equal(t, epoch.Add(1500*time.Millisecond), v.Now())
	assert.Equal(t, 2, v.Pending())

	v.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, v.Pending())
}

func TestVirtualCallbackSeesDueTime(t *testing.T) {
	v := NewVirtual(epoch)
	var seen time.Time
	v.AfterFunc(time.Second, func() { seen = v.Now() })
	v.Advance(10 * time.Second)
	assert.Equal(t, epoch.Add(time.Second), seen)
	assert.Equal(t, epoch.Add(10*time.Second), v.Now())
}

func TestVirtualNestedScheduling(t *testing.T) {
	v := NewVirtual(epoch)
	fired := 0
	v.AfterFunc(time.Second, func() {
		fired++
		v.AfterFunc(time.Second, func() { fired++ })
	})

	v.Advance(2 * time.Second)
	assert.Equal(t, 2, fired)
}

func TestVirtualStop(t *testing.T) {
	v := NewVirtual(epoch)
	fired := false
	timer := v.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	v.Advance(time.Minute)
	assert.False(t, fired)
}

func TestTickerOnVirtualClock(t *testing.T) {
	v := NewVirtual(epoch)
	ticks := 0
	var ticker *Ticker
	ticker = Every(v, time.Second, func() {
		ticks++
		if ticks == 3 {
			ticker.Stop()
		}
	})

	v.Advance(500 * time.Millisecond)
	assert.Zero(t, ticks)
	v.Advance(10 * time.Second)
	assert.Equal(t, 3, ticks)
	assert.Zero(t, v.Pending())
}

func TestTickerStopIsIdempotent(t *testing.T) {
	v := NewVirtual(epoch)
	ticker := Every(v, time.Second, func() {})
	ticker.Stop()
	ticker.Stop()
	assert.Zero(t, v.Pending())

	var nilTicker *Ticker
	assert.NotPanics(t, nilTicker.Stop)
}

func TestRealScheduler(t *testing.T) {
	var hits atomic.Int32
	done := make(chan struct{})
	ticker := Every(Real{}, 5*time.Millisecond, func() {
		if hits.Add(1) == 2 {
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not fire")
	}
	ticker.Stop()

	stopped := Real{}.AfterFunc(time.Hour, func() {})
	require.True(t, stopped.Stop())
}
