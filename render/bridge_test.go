package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBToTcell_KeepsPaletteChannels(t *testing.T) {
	var pal Palette
	base := make([]byte, len(pal)*3)
	for i := range base {
		base[i] = byte(i % 64)
	}
	if err := ScalePalette(&pal, base, 256); err != nil {
		t.Fatal(err)
	}

	for i, c := range pal {
		r, g, b := RGBToTcell(c).RGB()
		assert.Equal(t, [3]int32{int32(c.R), int32(c.G), int32(c.B)}, [3]int32{r, g, b}, "entry %d", i)
	}
}
