package pattern

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/colornames"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lixenwraith/warp-fade/core"
)

// Upscale enlarges src by an integer factor with nearest-neighbor sampling so pixels stay square
func Upscale(src image.Image, factor int) (*image.RGBA, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: scale factor %d", core.ErrInvalidArgument, factor)
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst, nil
}

// Caption draws text centered on img with a one-pixel drop shadow
func Caption(img xdraw.Image, text string) {
	face := basicfont.Face7x13
	b := img.Bounds()
	width := font.MeasureString(face, text).Ceil()
	x := b.Min.X + (b.Dx()-width)/2
	y := b.Min.Y + (b.Dy()+face.Ascent)/2

	shadow := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x+1, y+1),
	}
	shadow.DrawString(text)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colornames.White),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
