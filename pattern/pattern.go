package pattern

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"golang.org/x/image/colornames"

	"github.com/lixenwraith/warp-fade/core"
)

// Generator renders a truecolor source frame of the given size
type Generator func(width, height int) *image.RGBA

var generators = map[string]Generator{
	"plasma": Plasma,
	"bars":   Bars,
	"rings":  Rings,
}

// Names returns the registered generator names, sorted
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the generator registered under name
func Lookup(name string) (Generator, error) {
	gen, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown pattern %q, want one of %v", core.ErrInvalidArgument, name, Names())
	}
	return gen, nil
}

// Gradient stops per generator
var (
	plasmaStops = []color.RGBA{colornames.Midnightblue, colornames.Darkviolet, colornames.Orangered, colornames.Gold, colornames.Lightyellow}
	barStops    = []color.RGBA{colornames.Navy, colornames.Deepskyblue, colornames.White, colornames.Deepskyblue, colornames.Navy}
	ringStops   = []color.RGBA{colornames.Indigo, colornames.Crimson, colornames.Darkorange, colornames.Yellow, colornames.Teal, colornames.Aquamarine}
)

// gradient samples stops evenly spaced over t in [0, 1]
func gradient(stops []color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	f := pos - float64(i)
	a, b := stops[i], stops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 0xff}
}

// Plasma is the classic summed-sines plasma
func Plasma(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		fy := float64(y)
		for x := 0; x < width; x++ {
			fx := float64(x)
			v := math.Sin(fx/16) +
				math.Sin(fy/8) +
				math.Sin((fx+fy)/16) +
				math.Sin(math.Hypot(fx-float64(width)/2, fy-float64(height)/2)/8)
			img.SetRGBA(x, y, gradient(plasmaStops, (v+4)/8))
		}
	}
	return img
}

// Bars draws horizontal copper bars
func Bars(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	const period = 24
	for y := 0; y < height; y++ {
		c := gradient(barStops, float64(y%period)/float64(period-1))
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Rings draws concentric rings around the frame center
func Rings(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	const ringWidth = 18.0
	cx, cy := float64(width)/2, float64(height)/2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			_, frac := math.Modf(d / ringWidth)
			img.SetRGBA(x, y, gradient(ringStops, frac))
		}
	}
	return img
}
