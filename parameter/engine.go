package parameter

import "time"

// Frame Clock
const (
	// DefaultTargetRate is the logical tick rate in ticks per real second (VGA mode 13h refresh)
	DefaultTargetRate = 70

	// MaxTargetRate keeps the per-tick millisecond interval non-zero
	MaxTargetRate = 1000

	// TimerInterval is how often the real-time driver feeds elapsed milliseconds to the clock
	TimerInterval = 1 * time.Millisecond

	// PumpRateMultiplier bounds event pumping while waiting for a tick to this multiple of the target rate
	PumpRateMultiplier = 4
)

// Demo Defaults
const (
	// DefaultHoldTicks is how long a fully revealed frame is held between fade-in and fade-out
	DefaultHoldTicks = DefaultTargetRate

	// DefaultColors is the quantizer budget, index 0 is reserved for Background
	DefaultColors = PaletteEntries - 1

	// HeadlessWidth and HeadlessHeight size the in-memory surface (mode 13h)
	HeadlessWidth  = 320
	HeadlessHeight = 200
)
