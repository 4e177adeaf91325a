package pattern

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/lixenwraith/warp-fade/core"
	"github.com/lixenwraith/warp-fade/parameter"
	"github.com/lixenwraith/warp-fade/render"
)

// Frame is an indexed source image with the 6-bit base palette it was quantized against
// Palette index 0 is reserved black, matching the Background pixel value
type Frame struct {
	Width   int
	Height  int
	Pixels  []byte
	Palette []byte
}

// Quantize reduces img to at most colors entries plus the reserved Background entry
func Quantize(img image.Image, colors int) (*Frame, error) {
	if colors < 1 || colors > parameter.DefaultColors {
		return nil, fmt.Errorf("%w: %d colors, want 1..%d", core.ErrInvalidArgument, colors, parameter.DefaultColors)
	}
	b := img.Bounds()

	q := quantize.MedianCutQuantizer{}
	pal := make(color.Palette, 0, colors+1)
	pal = append(pal, color.Black)
	pal = append(pal, q.Quantize(make(color.Palette, 0, colors), img)...)

	// Adjust image so that top-left corner is at (0, 0)
	pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
	draw.Draw(pm, pm.Rect, img, b.Min, draw.Src)

	f := &Frame{
		Width:   b.Dx(),
		Height:  b.Dy(),
		Pixels:  make([]byte, b.Dx()*b.Dy()),
		Palette: make([]byte, parameter.PaletteBytes),
	}
	for y := 0; y < f.Height; y++ {
		copy(f.Pixels[y*f.Width:(y+1)*f.Width], pm.Pix[y*pm.Stride:y*pm.Stride+f.Width])
	}
	for i, c := range pal {
		r, g, bl, _ := c.RGBA()
		f.Palette[i*3] = byte(r>>8) >> 2
		f.Palette[i*3+1] = byte(g>>8) >> 2
		f.Palette[i*3+2] = byte(bl>>8) >> 2
	}
	return f, nil
}

// Build renders the named generator at the given size and quantizes it
// A non-empty caption is stamped over the center before quantizing
func Build(name string, width, height, colors int, caption string) (*Frame, error) {
	gen, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	return finish(gen(width, height), colors, caption)
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", core.ErrInvalidArgument, width, height)
	}
	return nil
}

func finish(img *image.RGBA, colors int, caption string) (*Frame, error) {
	if caption != "" {
		Caption(img, caption)
	}
	return Quantize(img, colors)
}

// Snapshot converts a surface to a paletted image through its current palette
func Snapshot(s render.Surface) *image.Paletted {
	width, height := s.Size()
	src := s.Palette()
	pal := make(color.Palette, len(src))
	for i, c := range src {
		pal[i] = color.RGBA{c.R, c.G, c.B, 0xff}
	}
	pm := image.NewPaletted(image.Rect(0, 0, width, height), pal)
	copy(pm.Pix, s.Pixels())
	return pm
}
