// Package linescan extracts per-line average traces from vertical bands of a line scan image.
//
// A line scan image is stored as a matrix with one row per scan line and one column per
// spatial place. A band is a half-open range of columns [X0, X1); averaging the band row by
// row gives a trace with one value per scan line.
package linescan

import (
	"errors"
	"fmt"
)

// DefaultWidth is the band width a session starts with.
const DefaultWidth = 11

// Sentinel errors returned (wrapped) by the package.
var (
	ErrBandOutOfRange = errors.New("band outside image")
	ErrBaselineWindow = errors.New("invalid baseline window")
	ErrEmptyImage     = errors.New("empty image")
	ErrRaggedMatrix   = errors.New("ragged matrix")
	ErrRaggedRecords  = errors.New("records have signals of different lengths")
	ErrTerminated     = errors.New("session already terminated")
)

// Band is the half-open column range [X0, X1) that gets averaged.
type Band struct {
	X0 int
	X1 int
}

// ComputeBand returns the band centered on pos for the given width.
// For width > 1 the band spans width-1 columns (pos-(width-1)/2 up to pos+(width-1)/2, exclusive).
func ComputeBand(pos, width int) Band {
	if width == 1 {
		return Band{X0: pos, X1: pos + 1}
	}
	half := (width - 1) / 2
	return Band{X0: pos - half, X1: pos + half}
}

// Width returns the number of columns covered by the band.
func (b Band) Width() int {
	return b.X1 - b.X0
}

// Empty reports whether the band covers no columns.
func (b Band) Empty() bool {
	return b.X1 <= b.X0
}

// Clip intersects the band with [0, nPlaces).
func (b Band) Clip(nPlaces int) Band {
	if b.X0 < 0 {
		b.X0 = 0
	}
	if b.X1 > nPlaces {
		b.X1 = nPlaces
	}
	return b
}

func (b Band) String() string {
	return fmt.Sprintf("[%d,%d)", b.X0, b.X1)
}

// ClampWidth limits width to [1, nPlaces].
func ClampWidth(width, nPlaces int) int {
	if width > nPlaces {
		width = nPlaces
	}
	if width < 1 {
		width = 1
	}
	return width
}
