package linescan

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// BaselineWindow selects the pre-stimulus lines [Start, Stop) used as reference.
type BaselineWindow struct {
	Start int
	Stop  int
}

func (w BaselineWindow) String() string {
	return fmt.Sprintf("lines [%d,%d)", w.Start, w.Stop)
}

// Validate checks the window against an image with nLines scan lines.
func (w BaselineWindow) Validate(nLines int) error {
	if w.Start < 0 || w.Start >= w.Stop || w.Stop > nLines {
		return fmt.Errorf("%w: %s for an image of %d lines", ErrBaselineWindow, w, nLines)
	}
	return nil
}

// Baseline returns the column-wise mean of lines [frameStart, frameStop).
func Baseline(img mat.Matrix, frameStart, frameStop int) ([]float64, error) {
	nLines, nPlaces := img.Dims()
	w := BaselineWindow{Start: frameStart, Stop: frameStop}
	if err := w.Validate(nLines); err != nil {
		return nil, err
	}

	column := make([]float64, frameStop-frameStart)
	base := make([]float64, nPlaces)
	for col := 0; col < nPlaces; col++ {
		for i := range column {
			column[i] = img.At(frameStart+i, col)
		}
		base[col] = stat.Mean(column, nil)
	}
	return base, nil
}

// Normalize converts raw intensity into relative change against the baseline of
// lines [frameStart, frameStop): (img - B) / B, broadcast over every line.
//
// A zero baseline element gives non-finite values in that column. They are left as they are.
func Normalize(img mat.Matrix, frameStart, frameStop int) (*mat.Dense, error) {
	base, err := Baseline(img, frameStart, frameStop)
	if err != nil {
		return nil, err
	}

	nLines, nPlaces := img.Dims()
	out := mat.NewDense(nLines, nPlaces, nil)
	out.Apply(func(_, col int, v float64) float64 {
		return (v - base[col]) / base[col]
	}, img)
	return out, nil
}
