package engine

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/warp-fade/core"
)

func newTestClock(t *testing.T, rate uint32) *FrameClock {
	t.Helper()
	c, err := NewFrameClock(rate)
	require.NoError(t, err)
	return c
}

// tickingPump advances the clock by ticksPerPump whole intervals on every pump
type tickingPump struct {
	clock        *FrameClock
	ticksPerPump uint32
	calls        int
}

func (p *tickingPump) PumpEvents() {
	p.calls++
	_ = p.clock.OnTimerFired(p.clock.TickInterval() * p.ticksPerPump)
}

func TestNewFrameClock_Rate(t *testing.T) {
	tests := []struct {
		rate uint32
		ok   bool
	}{
		{0, false},
		{1, true},
		{70, true},
		{1000, true},
		{1001, false},
	}
	for _, tt := range tests {
		c, err := NewFrameClock(tt.rate)
		if tt.ok {
			require.NoError(t, err, "rate %d", tt.rate)
			assert.Equal(t, tt.rate, c.TargetRate())
			assert.Equal(t, uint32(0), c.CurrentTick())
		} else {
			assert.ErrorIs(t, err, core.ErrInvalidArgument, "rate %d", tt.rate)
			assert.Nil(t, c)
		}
	}
}

func TestFrameClock_SetTargetRateRejectsZero(t *testing.T) {
	c := newTestClock(t, 70)

	assert.ErrorIs(t, c.SetTargetRate(0), core.ErrInvalidArgument)
	assert.Equal(t, uint32(70), c.TargetRate())
}

func TestFrameClock_ZeroValueRejectsFiring(t *testing.T) {
	var c FrameClock
	assert.ErrorIs(t, c.OnTimerFired(100), core.ErrInvalidArgument)
	assert.Equal(t, uint32(0), c.CurrentTick())
}

func TestFrameClock_SmallIncrementsNoDrift(t *testing.T) {
	for _, rate := range []uint32{1, 60, 70, 100, 333, 1000} {
		c := newTestClock(t, rate)
		interval := c.TickInterval()

		const k = 25
		for i := uint32(0); i < k*interval; i++ {
			require.NoError(t, c.OnTimerFired(1))
		}
		assert.Equal(t, uint32(k), c.CurrentTick(), "rate %d", rate)
		assert.Equal(t, uint32(0), c.SubTickMs(), "rate %d", rate)
	}
}

func TestFrameClock_CarriesRemainder(t *testing.T) {
	c := newTestClock(t, 60) // 1000/60 = 16ms

	for i := 0; i < 3; i++ {
		require.NoError(t, c.OnTimerFired(10))
	}
	assert.Equal(t, uint32(1), c.CurrentTick())
	assert.Equal(t, uint32(14), c.SubTickMs())

	require.NoError(t, c.OnTimerFired(2))
	assert.Equal(t, uint32(2), c.CurrentTick())
	assert.Equal(t, uint32(0), c.SubTickMs())
}

func TestFrameClock_LargeElapsedAddsManyTicks(t *testing.T) {
	c := newTestClock(t, 70) // 14ms

	require.NoError(t, c.OnTimerFired(14*1000+5))
	assert.Equal(t, uint32(1000), c.CurrentTick())
	assert.Equal(t, uint32(5), c.SubTickMs())
}

func TestFrameClock_RateChangeAppliesImmediately(t *testing.T) {
	c := newTestClock(t, 10) // 100ms

	require.NoError(t, c.OnTimerFired(50))
	assert.Equal(t, uint32(0), c.CurrentTick())

	require.NoError(t, c.SetTargetRate(100)) // 10ms
	require.NoError(t, c.OnTimerFired(0))
	assert.Equal(t, uint32(5), c.CurrentTick())
	assert.Equal(t, uint32(0), c.SubTickMs())
}

func TestFrameClock_Wraparound(t *testing.T) {
	c := newTestClock(t, 100)
	c.ticks.Store(math.MaxUint32)

	require.NoError(t, c.OnTimerFired(10))
	assert.Equal(t, uint32(0), c.CurrentTick())

	require.NoError(t, c.OnTimerFired(30))
	assert.Equal(t, uint32(3), c.CurrentTick())
}

func TestFrameClock_SyncUsesEpochMilliseconds(t *testing.T) {
	c := newTestClock(t, 70) // 14ms
	mock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	// First sync only sets the epoch
	require.NoError(t, c.Sync(mock.Now()))
	assert.Equal(t, uint32(0), c.CurrentTick())

	require.NoError(t, c.Sync(mock.Advance(13*time.Millisecond)))
	assert.Equal(t, uint32(0), c.CurrentTick())

	require.NoError(t, c.Sync(mock.Advance(time.Millisecond)))
	assert.Equal(t, uint32(1), c.CurrentTick())

	// Sub-millisecond steps are not lost between syncs
	for i := 0; i < 28; i++ {
		require.NoError(t, c.Sync(mock.Advance(500*time.Microsecond)))
	}
	assert.Equal(t, uint32(2), c.CurrentTick())

	// Backwards time is ignored
	mock.SetTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, c.Sync(mock.Now()))
	assert.Equal(t, uint32(2), c.CurrentTick())
}

func TestFrameClock_SyncFeedsLongGapsInFull(t *testing.T) {
	c := newTestClock(t, 1000) // 1ms per tick
	epoch := time.Unix(1000, 0)
	require.NoError(t, c.Sync(epoch))

	gap := time.Duration(math.MaxUint32+100) * time.Millisecond
	require.NoError(t, c.Sync(epoch.Add(gap)))

	// 2^32+99 ticks on a uint32 counter
	assert.Equal(t, uint32(99), c.CurrentTick())
	assert.Equal(t, uint32(0), c.SubTickMs())
}

func TestFrameClock_AdvancedClosesOnTick(t *testing.T) {
	c := newTestClock(t, 100)
	ch := c.Advanced()

	require.NoError(t, c.OnTimerFired(5))
	select {
	case <-ch:
		t.Fatal("channel closed without a tick")
	default:
	}

	require.NoError(t, c.OnTimerFired(5))
	select {
	case <-ch:
	default:
		t.Fatal("channel not closed after tick")
	}

	// A fresh subscription waits for the next tick
	select {
	case <-c.Advanced():
		t.Fatal("fresh channel already closed")
	default:
	}
}

func TestFrameClock_WaitForNextTickPumpsEveryIteration(t *testing.T) {
	c := newTestClock(t, 1000)

	calls := 0
	pump := PumpFunc(func() {
		calls++
		if calls == 3 {
			_ = c.OnTimerFired(1)
		}
	})

	tick := c.WaitForNextTick(pump)
	assert.Equal(t, uint32(1), tick)
	assert.Equal(t, 3, calls)
}

func TestFrameClock_WaitForNextTickWakesOnDriver(t *testing.T) {
	c := newTestClock(t, 10) // pump interval 25ms

	var pumps atomic.Int32
	pump := PumpFunc(func() { pumps.Add(1) })

	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = c.OnTimerFired(100)
	}()

	start := time.Now()
	tick := c.WaitForNextTick(pump)
	assert.Equal(t, uint32(1), tick)
	assert.GreaterOrEqual(t, pumps.Load(), int32(2), "pumped on entry and on wake")
	assert.Less(t, time.Since(start), time.Second)
}

func TestFrameClock_WaitForNextTickPumpsWhileIdle(t *testing.T) {
	c := newTestClock(t, 1000) // pump interval 250us

	var pumps atomic.Int32
	done := make(chan uint32)
	go func() {
		done <- c.WaitForNextTick(PumpFunc(func() { pumps.Add(1) }))
	}()

	require.Eventually(t, func() bool { return pumps.Load() >= 5 }, time.Second, time.Millisecond)
	require.NoError(t, c.OnTimerFired(1))
	assert.Equal(t, uint32(1), <-done)
}

func TestFrameClock_Hold(t *testing.T) {
	c := newTestClock(t, 70)
	pump := &tickingPump{clock: c, ticksPerPump: 1}

	assert.Equal(t, uint32(0), c.Hold(pump, 0))
	assert.Equal(t, 0, pump.calls)

	assert.Equal(t, uint32(5), c.Hold(pump, 5))
	assert.Equal(t, 5, pump.calls)

	pump.ticksPerPump = 3
	assert.Equal(t, uint32(11), c.Hold(pump, 5))
}

func TestFrameClock_ConcurrentReadersSeeMonotonicTicks(t *testing.T) {
	c := newTestClock(t, 1000)

	const fires = 5000
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last uint32
			for i := 0; i < fires; i++ {
				cur := c.CurrentTick()
				if cur < last {
					t.Errorf("tick went backwards: %d -> %d", last, cur)
					return
				}
				last = cur
			}
		}()
	}

	for i := 0; i < fires; i++ {
		require.NoError(t, c.OnTimerFired(1))
	}
	wg.Wait()
	assert.Equal(t, uint32(fires), c.CurrentTick())
}
