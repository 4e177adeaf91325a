package render

import (
	"fmt"

	"github.com/lixenwraith/warp-fade/core"
	"github.com/lixenwraith/warp-fade/parameter"
)

// RGB is one display-range palette color
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the fully darkened color
var RGBBlack = RGB{0, 0, 0}

// Palette is the display-range color table indexed by pixel values
type Palette [parameter.PaletteEntries]RGB

// clampInt bounds v to [lo, hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScalePalette writes base into dst attenuated by brightness (0 black, 256 unscaled)
// base holds 768 6-bit channels; attenuation happens in the 6-bit domain before the <<2 expansion,
// which reproduces the VGA DAC brightness curve exactly
func ScalePalette(dst *Palette, base []byte, brightness int) error {
	if len(base) != parameter.PaletteBytes {
		return fmt.Errorf("%w: base palette is %d bytes, want %d", core.ErrInvalidArgument, len(base), parameter.PaletteBytes)
	}

	scale := func(c byte) uint8 {
		darkened := clampInt((int(c)*brightness)>>8, 0, parameter.ChannelMax6)
		return uint8(clampInt(darkened<<2, 0, parameter.ChannelMax8))
	}

	for i := range dst {
		p := base[i*3 : i*3+3]
		dst[i] = RGB{scale(p[0]), scale(p[1]), scale(p[2])}
	}
	return nil
}
