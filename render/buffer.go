package render

import (
	"github.com/lixenwraith/warp-fade/parameter"
)

// Surface is the display collaborator's indexed framebuffer as seen by the warp
// Pixels and palette are owned by the implementation; callers write into them but never reallocate
type Surface interface {
	Size() (width, height int)
	Pixels() []byte
	Palette() *Palette
}

// IndexedBuffer is an 8-bit indexed framebuffer with its palette
// Dimensions stay fixed until an explicit Resize
type IndexedBuffer struct {
	pixels  []byte
	palette Palette
	width   int
	height  int
}

// NewIndexedBuffer creates a buffer cleared to Background with a black palette
func NewIndexedBuffer(width, height int) *IndexedBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &IndexedBuffer{
		pixels: make([]byte, width*height),
		width:  width,
		height: height,
	}
}

// Size returns the buffer dimensions in pixels
func (b *IndexedBuffer) Size() (int, int) {
	return b.width, b.height
}

// Pixels returns the backing pixel slice, row-major with stride width
func (b *IndexedBuffer) Pixels() []byte {
	return b.pixels
}

// Palette returns the buffer's live palette
func (b *IndexedBuffer) Palette() *Palette {
	return &b.palette
}

// Resize adjusts dimensions, reallocates only if capacity insufficient
// Content is cleared to Background since the old stride no longer applies
func (b *IndexedBuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.pixels) < size {
		b.pixels = make([]byte, size)
	} else {
		b.pixels = b.pixels[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear fills every pixel with Background
func (b *IndexedBuffer) Clear() {
	b.Fill(parameter.Background)
}

// Fill sets every pixel to index using exponential copy
func (b *IndexedBuffer) Fill(index byte) {
	fill(b.pixels, index)
}

// At returns the index at (x, y) and whether it is in bounds
func (b *IndexedBuffer) At(x, y int) (byte, bool) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, false
	}
	return b.pixels[y*b.width+x], true
}

// fill writes v to every element of s, doubling the copied span each pass
func fill(s []byte, v byte) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for filled := 1; filled < len(s); filled *= 2 {
		copy(s[filled:], s[:filled])
	}
}
