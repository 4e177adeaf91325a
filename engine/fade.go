package engine

import (
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/warp-fade/core"
	"github.com/lixenwraith/warp-fade/parameter"
	"github.com/lixenwraith/warp-fade/render"
	"github.com/lixenwraith/warp-fade/status"
)

// FadeState tracks one fade invocation: not-started -> running -> settled or aborted
type FadeState int32

// Fade states; a fade that fails after starting ends aborted with the surface mid-warp
const (
	FadeNotStarted FadeState = iota
	FadeRunning
	FadeSettled
	FadeAborted
)

func (s FadeState) String() string {
	switch s {
	case FadeNotStarted:
		return "not-started"
	case FadeRunning:
		return "running"
	case FadeSettled:
		return "settled"
	case FadeAborted:
		return "aborted"
	default:
		return fmt.Sprintf("FadeState(%d)", int32(s))
	}
}

const (
	directionIn  = "in"
	directionOut = "out"
)

// StepHook observes each warp step with its 1-based index and phase
type StepHook func(step, phase int)

// Fader animates warp fades on a surface, paced by a frame clock
// Quit is not observed during a fade; callers check their display after it returns
type Fader struct {
	clock   *FrameClock
	warp    *render.Warp
	surface render.Surface
	pump    EventPump
	logger  *log.Logger
	hook    StepHook

	state atomic.Int32
	steps int

	// Cached metric pointers
	statSteps *atomic.Int64
	statCount *atomic.Int64
	statState *status.AtomicString
	statDir   *status.AtomicString
}

// NewFader wires a fader to its collaborators; reg and logger may be nil
func NewFader(clock *FrameClock, warp *render.Warp, surface render.Surface, pump EventPump, reg *status.Registry, logger *log.Logger) *Fader {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	f := &Fader{
		clock:     clock,
		warp:      warp,
		surface:   surface,
		pump:      pump,
		logger:    logger,
		statSteps: reg.Ints.Get(status.KeyFadeSteps),
		statCount: reg.Ints.Get(status.KeyFadeCount),
		statState: reg.Strings.Get(status.KeyFadeState),
		statDir:   reg.Strings.Get(status.KeyFadeDirection),
	}
	f.statState.Store(FadeNotStarted.String())
	return f
}

// SetStepHook installs fn to observe warp steps; nil removes it
func (f *Fader) SetStepHook(fn StepHook) {
	f.hook = fn
}

// State returns the state of the current or last fade
func (f *Fader) State() FadeState {
	return FadeState(f.state.Load())
}

// Steps returns the number of warp steps the last fade performed
func (f *Fader) Steps() int {
	return f.steps
}

// FadeIn reveals image from black; on return the surface equals image at full brightness
func (f *Fader) FadeIn(image, base []byte) error {
	return f.run(directionIn, image, base, func(elapsed int) int {
		return max(parameter.PhaseMax-elapsed*parameter.FadeSpeed, 0)
	})
}

// FadeOut blanks image to black; on return the surface is all Background with a black palette
func (f *Fader) FadeOut(image, base []byte) error {
	return f.run(directionOut, image, base, func(elapsed int) int {
		return min(elapsed*parameter.FadeSpeed, parameter.PhaseMax)
	})
}

func (f *Fader) run(direction string, image, base []byte, phaseAt func(elapsed int) int) error {
	if err := f.validate(image, base); err != nil {
		return fmt.Errorf("fade %s: %w", direction, err)
	}

	f.setState(FadeRunning)
	if err := f.animate(direction, image, base, phaseAt); err != nil {
		f.setState(FadeAborted)
		f.logger.Printf("fade %s aborted after %d steps: %v", direction, f.steps, err)
		return err
	}
	f.statCount.Add(1)
	f.setState(FadeSettled)
	return nil
}

func (f *Fader) animate(direction string, image, base []byte, phaseAt func(elapsed int) int) error {
	f.statDir.Store(direction)
	pal := f.surface.Palette()

	if direction == directionIn {
		if err := render.ScalePalette(pal, base, 0); err != nil {
			return err
		}
	}

	start := f.clock.CurrentTick()
	f.steps = 0
	// Unsigned difference stays correct across counter wraparound
	for f.clock.CurrentTick()-start < parameter.FadeSteps {
		tick := f.clock.WaitForNextTick(f.pump)
		phase := phaseAt(int(tick - start))

		if err := f.warp.DrawPhase(f.surface, phase, image, base); err != nil {
			return fmt.Errorf("fade %s step %d: %w", direction, f.steps+1, err)
		}
		f.steps++
		if f.hook != nil {
			f.hook(f.steps, phase)
		}
	}

	// Terminal snap discards any rounding residue from the warp
	if direction == directionIn {
		if err := render.ScalePalette(pal, base, parameter.BrightnessFull); err != nil {
			return err
		}
		copy(f.surface.Pixels(), image)
	} else {
		if err := render.ScalePalette(pal, base, 0); err != nil {
			return err
		}
		pixels := f.surface.Pixels()
		for i := range pixels {
			pixels[i] = parameter.Background
		}
	}
	f.pump.PumpEvents()

	f.statSteps.Store(int64(f.steps))
	f.logger.Printf("fade %s settled: %d steps, ticks %d..%d", direction, f.steps, start, f.clock.CurrentTick())
	return nil
}

func (f *Fader) validate(image, base []byte) error {
	width, height := f.surface.Size()
	size := width * height
	if n := len(f.surface.Pixels()); n != size {
		return fmt.Errorf("%w: surface buffer is %d bytes, want %dx%d", core.ErrInvalidArgument, n, width, height)
	}
	if len(image) != size {
		return fmt.Errorf("%w: image is %d bytes, want %dx%d", core.ErrInvalidArgument, len(image), width, height)
	}
	if len(base) != parameter.PaletteBytes {
		return fmt.Errorf("%w: base palette is %d bytes, want %d", core.ErrInvalidArgument, len(base), parameter.PaletteBytes)
	}
	return nil
}

func (f *Fader) setState(s FadeState) {
	f.state.Store(int32(s))
	f.statState.Store(s.String())
}
