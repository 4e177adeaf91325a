package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"

	"github.com/lixenwraith/warp-fade/core"
	"github.com/lixenwraith/warp-fade/engine"
	"github.com/lixenwraith/warp-fade/parameter"
	"github.com/lixenwraith/warp-fade/pattern"
	"github.com/lixenwraith/warp-fade/render"
	"github.com/lixenwraith/warp-fade/status"
	"github.com/lixenwraith/warp-fade/terminal"
)

func main() {
	// Restore the terminal before reporting a panic on the main goroutine
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "warp-fade"
	app.Usage = "sine-warp fade transitions on an indexed-color terminal display"
	app.Version = "1.0.0"

	appFlags := sharedFlags()
	app.Flags = appFlags
	app.Before = altsrc.InitInputSourceWithContext(appFlags, altsrc.NewTomlSourceFromFlagFunc("config"))
	app.Action = runTerminal

	runFlags := sharedFlags()
	headlessFlags := append(sharedFlags(),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:  "width",
			Value: parameter.HeadlessWidth,
			Usage: "surface width in pixels",
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:  "height",
			Value: parameter.HeadlessHeight,
			Usage: "surface height in pixels",
		}),
		&cli.PathFlag{
			Name:      "snapshot",
			Usage:     "write the first mid fade-out frame as PNG to `FILE`",
			TakesFile: true,
		},
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:  "scale",
			Value: 1,
			Usage: "integer pixel scale of the snapshot PNG",
		}),
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log to stderr",
		},
	)

	app.Commands = []*cli.Command{
		{
			Name:        "run",
			Usage:       "Fade in the terminal until quit",
			Description: "Alternates fade-in, hold and fade-out on a tcell screen. Esc, q or Ctrl-C quits after the current fade; a second press exits at once.",
			Flags:       runFlags,
			Before:      altsrc.InitInputSourceWithContext(runFlags, altsrc.NewTomlSourceFromFlagFunc("config")),
			Action:      runTerminal,
		},
		{
			Name:        "headless",
			Usage:       "Fade an in-memory surface and report metrics",
			Description: "Runs the same fade cycles against an off-screen buffer, then prints the status registry.",
			Flags:       headlessFlags,
			Before:      altsrc.InitInputSourceWithContext(headlessFlags, altsrc.NewTomlSourceFromFlagFunc("config")),
			Action:      runHeadless,
		},
	}

	return app
}

// sharedFlags returns fresh flag instances; altsrc flags keep per-parse state
func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:      "config",
			Aliases:   []string{"c"},
			EnvVars:   []string{"WARPFADE_CONFIG"},
			Usage:     "load flag values from a TOML `FILE`",
			TakesFile: true,
		},
		altsrc.NewUintFlag(&cli.UintFlag{
			Name:    "rate",
			Aliases: []string{"r"},
			EnvVars: []string{"WARPFADE_RATE"},
			Value:   parameter.DefaultTargetRate,
			Usage:   fmt.Sprintf("logical ticks per second (1-%d)", parameter.MaxTargetRate),
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:  "cycles",
			Usage: "fade cycles to run, 0 runs until quit (headless runs one)",
		}),
		altsrc.NewUintFlag(&cli.UintFlag{
			Name:  "hold",
			Value: parameter.DefaultHoldTicks,
			Usage: "ticks to hold the revealed frame",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "pattern",
			Aliases: []string{"p"},
			EnvVars: []string{"WARPFADE_PATTERN"},
			Value:   "plasma",
			Usage:   "generated source frame: " + strings.Join(pattern.Names(), ", "),
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "caption",
			Usage: "text stamped over the source frame",
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:  "colors",
			Value: parameter.DefaultColors,
			Usage: fmt.Sprintf("palette entries for the source frame (1-%d)", parameter.DefaultColors),
		}),
		altsrc.NewBoolFlag(&cli.BoolFlag{
			Name:    "debug",
			EnvVars: []string{"WARPFADE_DEBUG"},
			Usage:   "write logs/warp-fade.log",
		}),
	}
}

type options struct {
	rate    uint32
	cycles  int
	hold    uint32
	pattern string
	caption string
	colors  int
}

func optionsFromContext(c *cli.Context) (options, error) {
	rate := c.Uint("rate")
	if rate == 0 || rate > parameter.MaxTargetRate {
		return options{}, fmt.Errorf("%w: --rate %d, want 1..%d", core.ErrInvalidArgument, rate, parameter.MaxTargetRate)
	}
	cycles := c.Int("cycles")
	if cycles < 0 {
		return options{}, fmt.Errorf("%w: --cycles %d", core.ErrInvalidArgument, cycles)
	}
	hold := c.Uint("hold")
	if hold > math.MaxUint32 {
		return options{}, fmt.Errorf("%w: --hold %d", core.ErrInvalidArgument, hold)
	}
	colors := c.Int("colors")
	if colors < 1 || colors > parameter.DefaultColors {
		return options{}, fmt.Errorf("%w: --colors %d, want 1..%d", core.ErrInvalidArgument, colors, parameter.DefaultColors)
	}
	return options{
		rate:    uint32(rate),
		cycles:  cycles,
		hold:    uint32(hold),
		pattern: c.String("pattern"),
		caption: c.String("caption"),
		colors:  colors,
	}, nil
}

// frameSource builds the source frame for a surface size
type frameSource func(width, height int) (*pattern.Frame, error)

// source checks the configured pattern once, then builds frames per size
func (o options) source() (frameSource, error) {
	if _, err := pattern.Lookup(o.pattern); err != nil {
		return nil, err
	}
	return func(width, height int) (*pattern.Frame, error) {
		return pattern.Build(o.pattern, width, height, o.colors, o.caption)
	}, nil
}

func runTerminal(c *cli.Context) error {
	opts, err := optionsFromContext(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	source, err := opts.source()
	if err != nil {
		return cli.Exit(err, 1)
	}

	if logFile := setupLogging(c.Bool("debug")); logFile != nil {
		defer logFile.Close()
	}
	logger := log.Default()

	reg := status.NewRegistry()
	display, err := terminal.Open(reg, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	core.SetCrashCleanup(display.Close)
	defer display.Close()

	s, err := newSession(opts, source, display.Surface(), display, reg, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	s.quit = display.QuitRequested
	s.resize = func() bool {
		if !display.ResizePending() {
			return false
		}
		display.Resize()
		return true
	}

	err = s.run()
	reg.Report(logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func runHeadless(c *cli.Context) error {
	opts, err := optionsFromContext(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if opts.cycles == 0 {
		opts.cycles = 1
	}
	scale := c.Int("scale")
	if scale < 1 {
		return cli.Exit(fmt.Errorf("%w: --scale %d", core.ErrInvalidArgument, scale), 1)
	}
	source, err := opts.source()
	if err != nil {
		return cli.Exit(err, 1)
	}

	if logFile := setupLogging(c.Bool("debug")); logFile != nil {
		defer logFile.Close()
	}
	logger := log.Default()
	if c.Bool("verbose") {
		logger = log.New(c.App.ErrWriter, "", log.LstdFlags)
	}

	reg := status.NewRegistry()
	frames := reg.Ints.Get(status.KeyDisplayFrames)
	pump := engine.PumpFunc(func() { frames.Add(1) })
	buf := render.NewIndexedBuffer(c.Int("width"), c.Int("height"))

	s, err := newSession(opts, source, buf, pump, reg, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if path := c.Path("snapshot"); path != "" {
		s.captureTo(path, scale)
	}

	err = s.run()
	reg.Report(log.New(c.App.Writer, "", 0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
