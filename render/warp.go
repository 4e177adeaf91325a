package render

import (
	"fmt"

	"github.com/lixenwraith/warp-fade/core"
	"github.com/lixenwraith/warp-fade/parameter"
	"github.com/lixenwraith/warp-fade/vmath"
)

// Warp renders sine-displaced frames of an indexed image
type Warp struct {
	table *vmath.SineTable
}

// NewWarp creates a warp engine sampling through table
func NewWarp(table *vmath.SineTable) *Warp {
	return &Warp{table: table}
}

// Brightness maps a phase to the palette brightness drawn with it
func Brightness(phase int) int {
	return max(parameter.BrightnessFull-phase, 0)
}

// DrawPhase writes src into dst displaced by phase and scales dst's palette from base to match
// Every destination pixel is written: out-of-range samples become Background
// Phase 0 is the identity at full brightness
func (w *Warp) DrawPhase(dst Surface, phase int, src, base []byte) error {
	width, height := dst.Size()
	size := width * height
	pixels := dst.Pixels()

	if len(src) != size {
		return fmt.Errorf("%w: source image is %d bytes, want %dx%d", core.ErrInvalidArgument, len(src), width, height)
	}
	if len(pixels) != size {
		return fmt.Errorf("%w: surface buffer is %d bytes, want %dx%d", core.ErrInvalidArgument, len(pixels), width, height)
	}
	if len(base) != parameter.PaletteBytes {
		return fmt.Errorf("%w: base palette is %d bytes, want %d", core.ErrInvalidArgument, len(base), parameter.PaletteBytes)
	}

	l := (phase * parameter.WarpIntensity) >> 8

	for y, row := 0, 0; y < height; y, row = y+1, row+width {
		line := pixels[row : row+width]

		yfix := width * ((l * w.table.At(y+phase)) >> 8)
		if row+yfix < 0 || row+yfix >= size {
			fill(line, parameter.Background)
			continue
		}

		srcRow := src[row+yfix : row+yfix+width]
		for x := range line {
			xfix := x + ((l * w.table.At(x+phase)) >> 8)
			if xfix >= 0 && xfix < width {
				line[x] = srcRow[xfix]
			} else {
				line[x] = parameter.Background
			}
		}
	}

	return ScalePalette(dst.Palette(), base, Brightness(phase))
}
