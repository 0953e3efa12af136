package linescan

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

const paletteSize = 256

// Colormap returns a palette by name: "jet", "heat", "moreland" or "gray".
func Colormap(name string) (palette.Palette, error) {
	switch name {
	case "", "jet":
		return palette.Rainbow(paletteSize, palette.Blue, palette.Red, 1, 1, 1), nil
	case "heat":
		return palette.Heat(paletteSize, 1), nil
	case "moreland":
		return moreland.SmoothBlueRed().Palette(paletteSize), nil
	case "gray":
		return grayPalette(paletteSize), nil
	default:
		return nil, fmt.Errorf("unknown colormap %q", name)
	}
}

type grayPalette int

func (n grayPalette) Colors() []color.Color {
	c := make([]color.Color, n)
	for i := range c {
		c[i] = color.Gray{Y: uint8(math.Round(float64(i) * 255 / float64(n-1)))}
	}
	return c
}

// MatrixToColorView maps m onto the colours of p for display.
//
// The values between percentiles pLow and pHigh are stretched over the palette and the rest
// clamped; non-finite values are drawn with the first colour.
func MatrixToColorView(m mat.Matrix, p palette.Palette, pLow, pHigh float64) (*image.RGBA, error) {
	h, w := m.Dims()
	if h == 0 || w == 0 {
		return nil, ErrEmptyImage
	}
	if !(0 <= pLow && pLow < pHigh && pHigh <= 100) {
		return nil, errors.New("percentiles must satisfy 0 <= pLow < pHigh <= 100")
	}
	colors := p.Colors()
	if len(colors) == 0 {
		return nil, errors.New("empty palette")
	}

	// Collect finite values for percentile computation
	vals := make([]float64, 0, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := m.At(y, x)
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				vals = append(vals, v)
			}
		}
	}

	lo, hi := 0.0, 1.0
	if len(vals) > 0 {
		sort.Float64s(vals)
		lo = percentile(vals, pLow)
		hi = percentile(vals, pHigh)
	}
	if hi == lo {
		hi = lo + 1 // avoid divide-by-zero; image becomes constant
	}

	last := float64(len(colors) - 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := m.At(y, x)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				img.Set(x, y, colors[0])
				continue
			}
			t := (v - lo) / (hi - lo)
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			img.Set(x, y, colors[int(math.Round(t*last))])
		}
	}
	return img, nil
}

// percentile interpolates within sorted vals.
func percentile(vals []float64, p float64) float64 {
	if p <= 0 {
		return vals[0]
	}
	if p >= 100 {
		return vals[len(vals)-1]
	}
	pos := (p / 100.0) * float64(len(vals)-1)
	i := int(math.Floor(pos))
	f := pos - float64(i)
	if i >= len(vals)-1 {
		return vals[len(vals)-1]
	}
	return vals[i]*(1-f) + vals[i+1]*f
}
