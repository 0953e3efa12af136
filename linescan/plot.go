package linescan

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	_ "gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Colours of the live selection and of committed selections.
var (
	PreviewColor   = color.RGBA{R: 255, A: 255}
	CommittedColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// PlotLabels are the texts of the trace figure.
type PlotLabels struct {
	Title  string
	XLabel string
	YLabel string
}

// DefaultLabels returns the labels for raw or baseline-normalised traces.
func DefaultLabels(title string, normalized bool) PlotLabels {
	l := PlotLabels{Title: title, XLabel: "line number", YLabel: "intensity [au]"}
	if normalized {
		l.YLabel = "dF/F"
	}
	return l
}

// StepTicks is a tick marker with a fixed step.
type StepTicks struct {
	Step   float64
	Format string
}

func (t StepTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	start := math.Ceil(min/t.Step) * t.Step
	for v := start; v <= max; v += t.Step {
		ticks = append(ticks, plot.Tick{
			Value: v,
			Label: fmt.Sprintf(t.Format, v),
		})
	}
	return ticks
}

// NewTracesPlot builds the trace figure: committed traces in grey (width 1) under the live
// trace in red (width 2). Axes are scaled to the data. preview may be nil.
func NewTracesPlot(preview Signal, committed []Record, labels PlotLabels) (*plot.Plot, error) {
	p := plot.New()

	// Font settings
	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = vg.Points(12)

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	p.X.Tick.Label.Font.Typeface = "Liberation"
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = vg.Points(10)

	p.Y.Tick.Label.Font.Typeface = "Liberation"
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	p.Title.Text = labels.Title
	p.X.Label.Text = labels.XLabel
	p.Y.Label.Text = labels.YLabel
	p.Add(plotter.NewGrid())

	nLines := len(preview)
	for _, rec := range committed {
		if err := addTrace(p, rec.Signal, CommittedColor, vg.Points(1)); err != nil {
			return nil, err
		}
		nLines = max(nLines, len(rec.Signal))
	}
	if err := addTrace(p, preview, PreviewColor, vg.Points(2)); err != nil {
		return nil, err
	}

	if nLines > 1 {
		p.X.Tick.Marker = StepTicks{Step: lineStep(nLines), Format: "%.0f"}
	}
	return p, nil
}

// lineStep picks a round tick step giving roughly ten ticks over n lines.
func lineStep(n int) float64 {
	raw := float64(n) / 10
	if raw <= 1 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}

// addTrace adds sig as one line per run of finite values; plotter rejects NaN and Inf.
func addTrace(p *plot.Plot, sig Signal, c color.Color, width vg.Length) error {
	for _, pts := range finiteRuns(sig) {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = c
		line.Width = width
		p.Add(line)
	}
	return nil
}

func finiteRuns(sig Signal) []plotter.XYs {
	var runs []plotter.XYs
	var cur plotter.XYs
	for i, v := range sig {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(i), Y: v})
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// PlotTraces renders the trace figure into an image of wPx x hPx pixels.
func PlotTraces(preview Signal, committed []Record, labels PlotLabels, wPx, hPx float64) (image.Image, error) {
	p, err := NewTracesPlot(preview, committed, labels)
	if err != nil {
		return nil, err
	}

	// Render to image
	const dpi = 96
	width := vg.Length(wPx) * vg.Inch / dpi
	height := vg.Length(hPx) * vg.Inch / dpi

	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	dc := vgdraw.New(c)
	p.Draw(dc)

	return c.Image(), nil
}

// SaveTracesPlot writes the figure of the committed traces to a PNG file.
func SaveTracesPlot(filename string, committed []Record, labels PlotLabels, wPx, hPx float64) (err error) {
	img, err := PlotTraces(nil, committed, labels, wPx, hPx)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return png.Encode(f, img)
}

// PlotPath returns the PNG path that goes with a CSV export path.
func PlotPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".png"
}
