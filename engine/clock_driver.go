package engine

import (
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/warp-fade/core"
	"github.com/lixenwraith/warp-fade/status"
)

// ClockDriver is the periodic real-time source that advances a FrameClock
// It is the clock's only writer; everything else reads
type ClockDriver struct {
	clock    *FrameClock
	provider TimeProvider
	interval time.Duration
	logger   *log.Logger

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Cached metric pointers
	statTicks *atomic.Int64
	statRate  *atomic.Int64
}

// NewClockDriver creates a driver firing every interval against provider's time
func NewClockDriver(clock *FrameClock, provider TimeProvider, interval time.Duration, reg *status.Registry, logger *log.Logger) *ClockDriver {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ClockDriver{
		clock:     clock,
		provider:  provider,
		interval:  interval,
		logger:    logger,
		stopChan:  make(chan struct{}),
		statTicks: reg.Ints.Get(status.KeyClockTicks),
		statRate:  reg.Ints.Get(status.KeyClockRate),
	}
}

// Start begins firing on a background goroutine
func (d *ClockDriver) Start() {
	if d.running.CompareAndSwap(false, true) {
		d.wg.Add(1)
		core.Go(d.loop)
	}
}

// Stop halts firing and waits for the goroutine to exit
func (d *ClockDriver) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopChan)
		if d.running.Load() {
			d.wg.Wait()
		}
	})
}

// Step performs one timer firing synchronously
func (d *ClockDriver) Step() {
	if err := d.clock.Sync(d.provider.Now()); err != nil {
		d.logger.Printf("clock driver: %v", err)
		return
	}
	d.statTicks.Store(int64(d.clock.CurrentTick()))
	d.statRate.Store(int64(d.clock.TargetRate()))
}

func (d *ClockDriver) loop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	// Establish the epoch before the first interval elapses
	d.Step()
	d.logger.Printf("clock driver started: interval=%v rate=%d", d.interval, d.clock.TargetRate())

	for {
		select {
		case <-d.stopChan:
			d.logger.Printf("clock driver stopped at tick %d", d.clock.CurrentTick())
			return
		case <-ticker.C:
			d.Step()
		}
	}
}
