package status

import (
	"log"
	"sync/atomic"
)

// Metric keys shared between writers and the exit report
const (
	KeyClockTicks    = "clock.ticks"
	KeyClockRate     = "clock.rate"
	KeyFadeCount     = "fade.count"
	KeyFadeSteps     = "fade.steps"
	KeyFadeState     = "fade.state"
	KeyFadeDirection = "fade.direction"
	KeyDisplayFrames = "display.frames"
	KeyDisplayQuit   = "display.quit"
)

// Registry groups atomic metrics by kind
// Writers cache pointers at construction and store without locking
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Report writes every metric to logger in key order, one line each
func (r *Registry) Report(logger *log.Logger) {
	r.Ints.Range(func(key string, v *atomic.Int64) {
		logger.Printf("%s=%d", key, v.Load())
	})
	r.Bools.Range(func(key string, v *atomic.Bool) {
		logger.Printf("%s=%t", key, v.Load())
	})
	r.Strings.Range(func(key string, v *AtomicString) {
		logger.Printf("%s=%s", key, v.Load())
	})
}
