package linescan

import (
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestColormap(t *testing.T) {
	for _, name := range []string{"", "jet", "heat", "moreland", "gray"} {
		p, err := Colormap(name)
		if err != nil {
			t.Fatalf("Colormap(%q): %v", name, err)
		}
		if n := len(p.Colors()); n != paletteSize {
			t.Fatalf("Colormap(%q) has %d colours, want %d", name, n, paletteSize)
		}
	}
	if _, err := Colormap("viridis"); err == nil {
		t.Fatal("unknown colormap: expected an error")
	}
}

func TestMatrixToColorView_GrayStretch(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{
		0, 50,
		100, math.NaN(),
	})
	p, _ := Colormap("gray")
	img, err := MatrixToColorView(m, p, 0, 100)
	if err != nil {
		t.Fatalf("MatrixToColorView: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds %v, want 2x2", b)
	}

	gray := func(x, y int) uint8 { return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y }
	if g := gray(0, 0); g != 0 {
		t.Errorf("min drawn as %d, want 0", g)
	}
	if g := gray(0, 1); g != 255 {
		t.Errorf("max drawn as %d, want 255", g)
	}
	if g := gray(1, 0); g < 126 || g > 129 {
		t.Errorf("midpoint drawn as %d, want about 128", g)
	}
	if g := gray(1, 1); g != 0 {
		t.Errorf("NaN drawn as %d, want 0", g)
	}
}

func TestMatrixToColorView_BadPercentiles(t *testing.T) {
	p, _ := Colormap("gray")
	m := mat.NewDense(1, 1, []float64{1})
	if _, err := MatrixToColorView(m, p, 50, 50); err == nil {
		t.Fatal("expected an error for pLow == pHigh")
	}
}
