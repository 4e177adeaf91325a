package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/warp-fade/core"
	"github.com/lixenwraith/warp-fade/parameter"
)

// testBasePalette returns a 6-bit palette covering the full 0..63 channel range
func testBasePalette() []byte {
	base := make([]byte, parameter.PaletteBytes)
	for i := range base {
		base[i] = byte((i * 7) % 64)
	}
	return base
}

func TestScalePalette_ZeroIsBlack(t *testing.T) {
	var pal Palette
	for i := range pal {
		pal[i] = RGB{1, 2, 3}
	}

	require.NoError(t, ScalePalette(&pal, testBasePalette(), 0))
	for i, c := range pal {
		assert.Equal(t, RGBBlack, c, "entry %d", i)
	}
}

func TestScalePalette_FullExpandsSixBit(t *testing.T) {
	base := testBasePalette()
	var pal Palette

	require.NoError(t, ScalePalette(&pal, base, parameter.BrightnessFull))
	for i, c := range pal {
		want := RGB{base[i*3] << 2, base[i*3+1] << 2, base[i*3+2] << 2}
		assert.Equal(t, want, c, "entry %d", i)
	}
}

func TestScalePalette_Curve(t *testing.T) {
	tests := []struct {
		name       string
		channel    byte
		brightness int
		want       uint8
	}{
		{"max at half", 63, 128, 31 << 2},
		{"odd truncates before shift", 33, 128, 16 << 2},
		{"small value rounds to zero", 1, 255, 0},
		{"quarter", 40, 64, 10 << 2},
		{"over-range channel clamps to 6-bit", 200, 256, 63 << 2},
		{"over-full brightness clamps", 63, 400, 63 << 2},
		{"negative brightness clamps", 63, -50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := make([]byte, parameter.PaletteBytes)
			base[0] = tt.channel
			var pal Palette

			require.NoError(t, ScalePalette(&pal, base, tt.brightness))
			assert.Equal(t, tt.want, pal[0].R)
		})
	}
}

func TestScalePalette_RejectsWrongLength(t *testing.T) {
	var pal Palette
	pal[5] = RGB{9, 9, 9}

	for _, n := range []int{0, 767, 769, 1024} {
		err := ScalePalette(&pal, make([]byte, n), 256)
		assert.ErrorIs(t, err, core.ErrInvalidArgument, "len %d", n)
	}
	// Untouched on error
	assert.Equal(t, RGB{9, 9, 9}, pal[5])
}
