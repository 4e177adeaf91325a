package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/lixenwraith/warp-fade/engine"
	"github.com/lixenwraith/warp-fade/parameter"
	"github.com/lixenwraith/warp-fade/pattern"
	"github.com/lixenwraith/warp-fade/render"
	"github.com/lixenwraith/warp-fade/status"
	"github.com/lixenwraith/warp-fade/vmath"
)

// session runs fade cycles on one surface
type session struct {
	opts    options
	source  frameSource
	surface *render.IndexedBuffer
	pump    engine.EventPump
	clock   *engine.FrameClock
	driver  *engine.ClockDriver
	fader   *engine.Fader
	logger  *log.Logger

	// Display hooks, nil when headless
	quit   func() bool
	resize func() bool

	frame *pattern.Frame

	// Snapshot capture, armed for the first fade-out
	snapshotPath  string
	snapshotScale int
	capturing     bool
	captured      bool
	captureErr    error
}

func newSession(opts options, source frameSource, surface *render.IndexedBuffer, pump engine.EventPump, reg *status.Registry, logger *log.Logger) (*session, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	clock, err := engine.NewFrameClock(opts.rate)
	if err != nil {
		return nil, err
	}
	s := &session{
		opts:    opts,
		source:  source,
		surface: surface,
		pump:    pump,
		clock:   clock,
		driver:  engine.NewClockDriver(clock, engine.NewMonotonicTimeProvider(), parameter.TimerInterval, reg, logger),
		fader:   engine.NewFader(clock, render.NewWarp(vmath.BuildSineTable()), surface, pump, reg, logger),
		logger:  logger,
	}
	s.fader.SetStepHook(s.onStep)
	return s, nil
}

// captureTo arms a PNG snapshot of the first fade-out once its phase is half way
func (s *session) captureTo(path string, scale int) {
	s.snapshotPath = path
	s.snapshotScale = scale
}

func (s *session) run() error {
	if s.driver != nil {
		s.driver.Start()
		defer s.driver.Stop()
	}

	for cycle := 1; s.opts.cycles == 0 || cycle <= s.opts.cycles; cycle++ {
		if s.quitting() {
			break
		}
		if err := s.refresh(false); err != nil {
			return err
		}
		if err := s.fader.FadeIn(s.frame.Pixels, s.frame.Palette); err != nil {
			return err
		}
		s.hold(s.opts.hold)

		if s.quitting() {
			break
		}
		if err := s.refresh(true); err != nil {
			return err
		}
		s.capturing = s.snapshotPath != "" && !s.captured
		err := s.fader.FadeOut(s.frame.Pixels, s.frame.Palette)
		s.capturing = false
		if err != nil {
			return err
		}
		s.hold(s.opts.hold / 2)

		s.logger.Printf("cycle %d complete at tick %d", cycle, s.clock.CurrentTick())
	}
	return s.captureErr
}

func (s *session) quitting() bool {
	return s.quit != nil && s.quit()
}

// refresh builds the source frame on first use and after a surface resize
// A visible frame is also snapped onto the surface so the next fade-out starts from it
func (s *session) refresh(visible bool) error {
	resized := s.resize != nil && s.resize()
	if s.frame != nil && !resized {
		return nil
	}

	width, height := s.surface.Size()
	frame, err := s.source(width, height)
	if err != nil {
		return fmt.Errorf("build %dx%d frame: %w", width, height, err)
	}
	s.frame = frame
	s.logger.Printf("source frame built: %dx%d", width, height)

	if visible {
		copy(s.surface.Pixels(), frame.Pixels)
		return render.ScalePalette(s.surface.Palette(), frame.Palette, parameter.BrightnessFull)
	}
	return nil
}

// hold pauses n ticks; with a display attached a quit request cuts it short
func (s *session) hold(n uint32) {
	if s.quit == nil {
		s.clock.Hold(s.pump, n)
		return
	}
	start := s.clock.CurrentTick()
	for s.clock.CurrentTick()-start < n && !s.quit() {
		s.clock.WaitForNextTick(s.pump)
	}
}

func (s *session) onStep(step, phase int) {
	if !s.capturing || s.captured || phase < parameter.PhaseMax/2 {
		return
	}
	s.captured = true
	s.captureErr = s.writeSnapshot()
	if s.captureErr == nil {
		s.logger.Printf("snapshot written to %s at phase %d", s.snapshotPath, phase)
	}
}

func (s *session) writeSnapshot() error {
	var img image.Image = pattern.Snapshot(s.surface)
	if s.snapshotScale > 1 {
		scaled, err := pattern.Upscale(img, s.snapshotScale)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		img = scaled
	}

	f, err := os.Create(s.snapshotPath)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: %w", err)
	}
	return f.Close()
}
