package engine

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/warp-fade/core"
	"github.com/lixenwraith/warp-fade/parameter"
)

// EventPump drains pending input and quit detection without blocking
// Must be cheap enough to call several times per tick
type EventPump interface {
	PumpEvents()
}

// PumpFunc adapts a plain function to EventPump
type PumpFunc func()

// PumpEvents calls f
func (f PumpFunc) PumpEvents() { f() }

// FrameClock is a logical tick counter advanced at a fixed target rate from real elapsed time
// Single writer (the timer driver) and any number of readers
// Sub-tick milliseconds are carried forward so per-call truncation never accumulates into drift
type FrameClock struct {
	ticks atomic.Uint32 // wraps on overflow
	rate  atomic.Uint32 // ticks per real second

	// Writer-only state
	subTick uint64 // milliseconds not yet converted to ticks
	epoch   time.Time
	lastMs  int64 // milliseconds since epoch at the last Sync
	synced  bool

	// Closed and replaced on every tick advance
	mu     sync.Mutex
	notify chan struct{}
}

// NewFrameClock creates a clock at tick 0 advancing at rate ticks per second
func NewFrameClock(rate uint32) (*FrameClock, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	c := &FrameClock{notify: make(chan struct{})}
	c.rate.Store(rate)
	return c, nil
}

func validateRate(rate uint32) error {
	if rate == 0 || rate > parameter.MaxTargetRate {
		return fmt.Errorf("%w: target rate %d, want 1..%d", core.ErrInvalidArgument, rate, parameter.MaxTargetRate)
	}
	return nil
}

// CurrentTick returns the tick counter, safe from any goroutine
func (c *FrameClock) CurrentTick() uint32 {
	return c.ticks.Load()
}

// TargetRate returns the configured ticks per second
func (c *FrameClock) TargetRate() uint32 {
	return c.rate.Load()
}

// SetTargetRate changes the tick rate, effective on the next OnTimerFired
func (c *FrameClock) SetTargetRate(rate uint32) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	c.rate.Store(rate)
	return nil
}

// TickInterval returns the whole milliseconds per tick at the current rate
func (c *FrameClock) TickInterval() uint32 {
	rate := c.rate.Load()
	if rate == 0 {
		return 0
	}
	return parameter.MaxTargetRate / rate
}

// PumpInterval is the longest WaitForNextTick sleeps between pumps
func (c *FrameClock) PumpInterval() time.Duration {
	rate := c.rate.Load()
	if rate == 0 {
		rate = parameter.DefaultTargetRate
	}
	return time.Second / time.Duration(rate*parameter.PumpRateMultiplier)
}

// OnTimerFired accumulates elapsedMs and converts every whole tick interval into a tick
// The interval is recomputed per call so rate changes apply immediately
func (c *FrameClock) OnTimerFired(elapsedMs uint32) error {
	interval := c.TickInterval()
	if interval == 0 {
		return fmt.Errorf("%w: clock has no target rate", core.ErrInvalidArgument)
	}

	c.subTick += uint64(elapsedMs)
	n := c.subTick / uint64(interval)
	if n == 0 {
		return nil
	}
	c.subTick -= n * uint64(interval)

	c.ticks.Add(uint32(n))
	c.broadcast()
	return nil
}

// Sync feeds the real time now into the clock
// The first call sets the epoch; later calls convert the milliseconds elapsed since the previous call
// Time that moves backwards is ignored
func (c *FrameClock) Sync(now time.Time) error {
	if !c.synced {
		c.epoch = now
		c.lastMs = 0
		c.synced = true
		return nil
	}

	nowMs := now.Sub(c.epoch).Milliseconds()
	elapsed := nowMs - c.lastMs
	if elapsed <= 0 {
		return nil
	}
	c.lastMs = nowMs

	// Gaps wider than one uint32 of milliseconds are fed in chunks
	for elapsed > math.MaxUint32 {
		if err := c.OnTimerFired(math.MaxUint32); err != nil {
			return err
		}
		elapsed -= math.MaxUint32
	}
	return c.OnTimerFired(uint32(elapsed))
}

// SubTickMs returns the carried milliseconds, only meaningful from the writer goroutine
func (c *FrameClock) SubTickMs() uint32 {
	return uint32(c.subTick)
}

// Advanced returns a channel closed on the next tick advance
func (c *FrameClock) Advanced() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notify == nil {
		c.notify = make(chan struct{})
	}
	return c.notify
}

func (c *FrameClock) broadcast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notify != nil {
		close(c.notify)
	}
	c.notify = make(chan struct{})
}

// WaitForNextTick pumps events until the tick differs from the one seen at entry, then returns it
// Between pumps it sleeps until the next tick or PumpInterval, whichever is first
func (c *FrameClock) WaitForNextTick(pump EventPump) uint32 {
	start := c.CurrentTick()

	timer := time.NewTimer(c.PumpInterval())
	defer timer.Stop()

	for {
		// Subscribe before checking so an advance between check and select is not missed
		advanced := c.Advanced()

		pump.PumpEvents()
		if tick := c.CurrentTick(); tick != start {
			return tick
		}

		timer.Reset(c.PumpInterval())
		select {
		case <-advanced:
		case <-timer.C:
		}
	}
}

// Hold waits until n ticks have elapsed, pumping events throughout
func (c *FrameClock) Hold(pump EventPump, n uint32) uint32 {
	start := c.CurrentTick()
	tick := start
	for tick-start < n {
		tick = c.WaitForNextTick(pump)
	}
	return tick
}
