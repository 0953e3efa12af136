package linescan

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Signal holds one value per scan line.
type Signal []float64

// Extract returns, for every line, the mean of the columns in b.
func Extract(img mat.Matrix, b Band) (Signal, error) {
	nLines, nPlaces := img.Dims()
	if b.X0 < 0 || b.X0 >= b.X1 || b.X1 > nPlaces {
		return nil, fmt.Errorf("%w: %s with %d places", ErrBandOutOfRange, b, nPlaces)
	}

	n := float64(b.Width())
	row := make([]float64, b.Width())
	sig := make(Signal, nLines)
	for i := 0; i < nLines; i++ {
		for k := range row {
			row[k] = img.At(i, b.X0+k)
		}
		sig[i] = floats.Sum(row) / n
	}
	return sig, nil
}

// nanSignal is what averaging over zero columns gives.
func nanSignal(n int) Signal {
	sig := make(Signal, n)
	for i := range sig {
		sig[i] = math.NaN()
	}
	return sig
}
