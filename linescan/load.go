package linescan

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	json "github.com/KevinWang15/go-json5"
	"gonum.org/v1/gonum/mat"

	// TIFF decoding also covers .lsm stacks (first page).
	_ "golang.org/x/image/tiff"
)

// LoadImage reads a line scan image into a matrix with one row per scan line.
//
// TIFF (including .lsm), PNG and JPEG files are decoded as images. Files ending in .json or
// .json5 must contain an array of equal-length numeric rows.
func LoadImage(path string) (*mat.Dense, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".json5":
		return LoadMatrixJSON(path)
	}
	return LoadImageFile(path)
}

// LoadImageFile decodes an image file and converts it to intensities.
// Gray and Gray16 pixels keep their raw value; other pixels are converted with color.Gray16Model.
func LoadImageFile(filename string) (m *mat.Dense, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	return ImageToMatrix(img)
}

// ImageToMatrix converts img to a matrix of intensities, rows first.
func ImageToMatrix(img image.Image) (*mat.Dense, error) {
	bounds := img.Bounds()
	h := bounds.Dy()
	w := bounds.Dx()
	if h == 0 || w == 0 {
		return nil, ErrEmptyImage
	}

	m := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(y, x, intensity(img.At(x+bounds.Min.X, y+bounds.Min.Y)))
		}
	}
	return m, nil
}

func intensity(c color.Color) float64 {
	switch v := c.(type) {
	case color.Gray:
		return float64(v.Y)
	case color.Gray16:
		return float64(v.Y)
	default:
		return float64(color.Gray16Model.Convert(c).(color.Gray16).Y)
	}
}

// LoadMatrixJSON reads a json (or json5) array of rows.
func LoadMatrixJSON(filename string) (*mat.Dense, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	m, err := MatrixFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// MatrixFromRows copies rows into a new matrix.
func MatrixFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyImage
	}
	h := len(rows)
	w := len(rows[0])
	data := make([]float64, 0, h*w)
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d values, row 0 has %d", ErrRaggedMatrix, y, len(row), w)
		}
		data = append(data, row...)
	}
	return mat.NewDense(h, w, data), nil
}
