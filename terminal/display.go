package terminal

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/warp-fade/render"
	"github.com/lixenwraith/warp-fade/status"
)

// HalfBlock renders the top pixel as foreground and the bottom pixel as background
const HalfBlock = '▀'

// Display owns a tcell screen and the indexed buffer presented on it
// All methods except QuitRequested and ResizePending belong to the goroutine running the fades
type Display struct {
	screen tcell.Screen
	buf    *render.IndexedBuffer
	logger *log.Logger

	quit      atomic.Bool
	resize    atomic.Bool
	forceQuit func()
	closeOnce sync.Once

	// Cached metric pointers
	statFrames *atomic.Int64
	statQuit   *atomic.Bool
}

// Open creates the platform terminal screen and wraps it
func Open(reg *status.Registry, logger *log.Logger) (*Display, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return New(screen, reg, logger)
}

// New initializes screen and sizes the buffer to it; reg and logger may be nil
func New(screen tcell.Screen, reg *status.Registry, logger *log.Logger) (*Display, error) {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	d := &Display{
		screen:     screen,
		logger:     logger,
		statFrames: reg.Ints.Get(status.KeyDisplayFrames),
		statQuit:   reg.Bools.Get(status.KeyDisplayQuit),
	}
	d.forceQuit = func() {
		d.Close()
		os.Exit(1)
	}

	cols, rows := screen.Size()
	d.buf = render.NewIndexedBuffer(cols, rows*2)
	logger.Printf("display opened: %dx%d cells, %dx%d pixels", cols, rows, cols, rows*2)
	return d, nil
}

// SetForceQuit replaces the action taken when quit is requested again before the first was handled
func (d *Display) SetForceQuit(fn func()) {
	d.forceQuit = fn
}

// Surface returns the indexed buffer the fades draw into
func (d *Display) Surface() *render.IndexedBuffer {
	return d.buf
}

// QuitRequested reports whether the user asked to quit
func (d *Display) QuitRequested() bool {
	return d.quit.Load()
}

// ResizePending reports a terminal resize not yet applied with Resize
func (d *Display) ResizePending() bool {
	return d.resize.Load()
}

// PumpEvents drains queued events without blocking, then presents the buffer
func (d *Display) PumpEvents() {
	for d.screen.HasPendingEvent() {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		d.handleEvent(ev)
	}
	d.Present()
}

func (d *Display) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuitKey(ev) {
			d.requestQuit()
		}
	case *tcell.EventResize:
		d.resize.Store(true)
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

func (d *Display) requestQuit() {
	// The fade loops do not poll quit, so a repeated request forces the exit
	if d.quit.Swap(true) {
		d.logger.Printf("display: repeated quit request, forcing exit")
		if d.forceQuit != nil {
			d.forceQuit()
		}
		return
	}
	d.statQuit.Store(true)
	d.logger.Printf("display: quit requested")
}

// Resize applies a pending terminal resize to the buffer, which is cleared
// Returns the new pixel dimensions
func (d *Display) Resize() (int, int) {
	d.resize.Store(false)
	d.screen.Sync()
	cols, rows := d.screen.Size()
	d.buf.Resize(cols, rows*2)
	d.logger.Printf("display resized: %dx%d pixels", cols, rows*2)
	return cols, rows * 2
}

// Present draws the buffer through its palette and shows it
func (d *Display) Present() {
	cols, rows := d.screen.Size()
	width, height := d.buf.Size()
	pixels := d.buf.Pixels()
	pal := d.buf.Palette()

	cols = min(cols, width)
	rows = min(rows, (height+1)/2)
	for row := 0; row < rows; row++ {
		top := pixels[2*row*width : 2*row*width+width]
		var bottom []byte
		if 2*row+1 < height {
			bottom = pixels[(2*row+1)*width : (2*row+1)*width+width]
		}
		for x := 0; x < cols; x++ {
			style := tcell.StyleDefault.Foreground(render.RGBToTcell(pal[top[x]]))
			if bottom != nil {
				style = style.Background(render.RGBToTcell(pal[bottom[x]]))
			} else {
				style = style.Background(render.RGBToTcell(render.RGBBlack))
			}
			d.screen.SetContent(x, row, HalfBlock, nil, style)
		}
	}
	d.screen.Show()
	d.statFrames.Add(1)
}

// Close restores the terminal; safe to call more than once
func (d *Display) Close() {
	d.closeOnce.Do(func() {
		d.screen.Fini()
		d.logger.Printf("display closed after %d frames", d.statFrames.Load())
	})
}
