package main

import (
	"image"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"github.com/bob-anderson-ok/LineScanTraces/linescan"
)

type capturedEvents struct {
	xs      []float64
	inside  []bool
	scrolls []linescan.ScrollDirection
	buttons []linescan.Button
	closed  int
}

func (c *capturedEvents) handlers() linescan.EventHandlers {
	return linescan.EventHandlers{
		PointerMoved: func(x float64, in bool) {
			c.xs = append(c.xs, x)
			c.inside = append(c.inside, in)
		},
		Scrolled:      func(d linescan.ScrollDirection) { c.scrolls = append(c.scrolls, d) },
		ButtonPressed: func(b linescan.Button) { c.buttons = append(c.buttons, b) },
		Closed:        func() { c.closed++ },
	}
}

func newTestScanView(t *testing.T, nPlaces int) *scanView {
	t.Helper()
	test.NewTempApp(t)
	v := newScanView(image.NewRGBA(image.Rect(0, 0, nPlaces, 4)), nPlaces)
	v.Resize(fyne.NewSize(200, 100))
	return v
}

func mouseAt(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestScanView_PointerColumns(t *testing.T) {
	v := newTestScanView(t, 10)
	var c capturedEvents
	v.SetHandlers(c.handlers())

	v.MouseIn(mouseAt(0, 5))
	v.MouseMoved(mouseAt(50, 5))
	v.MouseMoved(mouseAt(199, 5))
	v.MouseOut()

	want := []float64{0, 2.5, 9.95}
	if len(c.xs) != 4 {
		t.Fatalf("got %d pointer events, want 4", len(c.xs))
	}
	for i, w := range want {
		if math.Abs(c.xs[i]-w) > 1e-6 || !c.inside[i] {
			t.Errorf("event %d: x %v inside %v, want %v inside", i, c.xs[i], c.inside[i], w)
		}
	}
	if c.inside[3] {
		t.Error("MouseOut reported inside")
	}
}

func TestScanView_ButtonsAndWheel(t *testing.T) {
	v := newTestScanView(t, 10)
	var c capturedEvents
	v.SetHandlers(c.handlers())

	for _, b := range []desktop.MouseButton{desktop.MouseButtonPrimary, desktop.MouseButtonTertiary, desktop.MouseButtonSecondary} {
		e := mouseAt(10, 10)
		e.Button = b
		v.MouseDown(e)
		v.MouseUp(e)
	}
	want := []linescan.Button{linescan.ButtonLeft, linescan.ButtonMiddle, linescan.ButtonRight}
	if len(c.buttons) != len(want) {
		t.Fatalf("buttons %v, want %v", c.buttons, want)
	}
	for i := range want {
		if c.buttons[i] != want[i] {
			t.Fatalf("buttons %v, want %v", c.buttons, want)
		}
	}

	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 1}})
	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -3}})
	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DX: 2}})
	if len(c.scrolls) != 2 || c.scrolls[0] != linescan.ScrollUp || c.scrolls[1] != linescan.ScrollDown {
		t.Fatalf("scrolls %v", c.scrolls)
	}

	v.notifyClosed()
	if c.closed != 1 {
		t.Fatalf("closed %d times", c.closed)
	}
}

func TestScanView_NoHandlers(t *testing.T) {
	v := newTestScanView(t, 10)
	v.MouseMoved(mouseAt(10, 10))
	v.MouseOut()
	v.MouseDown(mouseAt(10, 10))
	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 1}})
	v.notifyClosed()
}

func TestScanView_Overlays(t *testing.T) {
	v := newTestScanView(t, 10)
	r := test.WidgetRenderer(v).(*scanViewRenderer)

	v.ShowBand(linescan.Band{X0: 2, X1: 4}, 3)
	if !r.live.Visible() {
		t.Fatal("live band hidden")
	}
	if p, s := r.live.Position(), r.live.Size(); p.X != 40 || s.Width != 60 || s.Height != 100 {
		t.Fatalf("live band at %v size %v, want 3 columns from column 2", p, s)
	}

	v.ShowBand(linescan.Band{X0: -3, X1: 2}, 5)
	if p, s := r.live.Position(), r.live.Size(); p.X != 0 || s.Width != 40 {
		t.Fatalf("clipped band at %v size %v", p, s)
	}

	// Even width: the averaged band is empty but the overlay still spans the width.
	v.ShowBand(linescan.Band{X0: 7, X1: 7}, 2)
	if p, s := r.live.Position(), r.live.Size(); !r.live.Visible() || p.X != 140 || s.Width != 40 {
		t.Fatalf("even-width band at %v size %v", p, s)
	}

	v.ShowBand(linescan.Band{X0: 12, X1: 12}, 2)
	if r.live.Visible() {
		t.Fatal("band right of the image shown")
	}

	v.ShowBand(linescan.Band{X0: 5, X1: 6}, 1)
	v.AddSelection(linescan.Record{Band: linescan.Band{X0: 5, X1: 6}})
	v.AddSelection(linescan.Record{Band: linescan.Band{X0: 5, X1: 6}})
	if len(r.committed) != 2 || len(r.Objects()) != 4 {
		t.Fatalf("%d committed rectangles, %d objects", len(r.committed), len(r.Objects()))
	}
	if p, s := r.committed[1].Position(), r.committed[1].Size(); p.X != 100 || s.Width != 20 {
		t.Fatalf("committed band at %v size %v", p, s)
	}
	if r.committed[0].FillColor != committedFill || r.live.FillColor != liveFill {
		t.Fatal("unexpected overlay colours")
	}
	if _, ok := r.Objects()[0].(*canvas.Image); !ok {
		t.Fatal("image is not the bottom object")
	}
}

func TestAppView_WiresSession(t *testing.T) {
	scan := newTestScanView(t, 20)
	traces := newTracePresenter(linescan.DefaultLabels("traces", false), 200, 100, slog.New(slog.DiscardHandler))
	quits := 0
	view := &appView{scan: scan, traces: traces, quit: func() { quits++ }}

	img := image.NewGray(image.Rect(0, 0, 20, 4))
	m, err := linescan.ImageToMatrix(img)
	if err != nil {
		t.Fatal(err)
	}
	s, err := linescan.NewSession(m, linescan.SessionConfig{
		OutputPath: filepath.Join(t.TempDir(), "scan_traces.csv"),
		View:       view,
	})
	if err != nil {
		t.Fatal(err)
	}
	var done int
	linescan.Bind(scan, s, func(linescan.ExportResult, error) { done++ })

	if scan.live != (overlay{x0: 5, width: 11}) {
		t.Fatalf("initial overlay %+v", scan.live)
	}
	if traces.image.Image == nil || len(traces.preview) != 4 {
		t.Fatal("trace figure not rendered")
	}

	scan.MouseMoved(mouseAt(30, 10)) // column 3
	if s.Pos() != 3 || scan.live != (overlay{x0: -2, width: 11}) {
		t.Fatalf("pos %d overlay %+v", s.Pos(), scan.live)
	}

	e := mouseAt(30, 10)
	e.Button = desktop.MouseButtonTertiary
	scan.MouseDown(e)
	if len(scan.committed) != 1 || len(traces.committed) != 1 {
		t.Fatalf("commit not shown: %d %d", len(scan.committed), len(traces.committed))
	}
	if scan.committed[0] != (overlay{x0: -2, width: 11}) {
		t.Fatalf("committed overlay %+v", scan.committed[0])
	}

	scan.notifyClosed()
	scan.notifyClosed()
	if done != 1 || quits != 1 {
		t.Fatalf("done %d quits %d, want 1 1", done, quits)
	}
}

func TestNewWindows_OnlyImageWindowEndsSession(t *testing.T) {
	a := test.NewTempApp(t)
	scan := newScanView(image.NewRGBA(image.Rect(0, 0, 10, 4)), 10)
	traces := newTracePresenter(linescan.DefaultLabels("traces", false), 200, 100, slog.New(slog.DiscardHandler))
	var c capturedEvents
	scan.SetHandlers(c.handlers())

	w, w2 := newWindows(a, filepath.Join("data", "scan.tif"), defaultSettings(), traces.labels, scan, traces)

	w2.Close()
	if c.closed != 0 {
		t.Fatalf("closing the trace window ended the session")
	}
	w.Close()
	if c.closed != 1 {
		t.Fatalf("closing the image window gave %d close events, want 1", c.closed)
	}
}
