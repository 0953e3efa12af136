package main

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/bob-anderson-ok/LineScanTraces/linescan"
)

var (
	liveFill      = color.NRGBA{R: 255, A: 128}
	committedFill = color.NRGBA{R: 128, G: 128, B: 128, A: 128}
)

// scanView shows the line scan image with the live band and the committed bands drawn over it.
// Places run left to right, lines top to bottom.
type scanView struct {
	widget.BaseWidget

	image     *canvas.Image
	nPlaces   int
	live      overlay
	committed []overlay
	handlers  linescan.EventHandlers
}

// overlay is a rectangle width columns wide starting at column x0.
type overlay struct {
	x0    int
	width int
}

// span returns the columns of o that fall inside an image nPlaces wide.
func (o overlay) span(nPlaces int) linescan.Band {
	return linescan.Band{X0: o.x0, X1: o.x0 + o.width}.Clip(nPlaces)
}

var (
	_ desktop.Hoverable    = (*scanView)(nil)
	_ desktop.Mouseable    = (*scanView)(nil)
	_ fyne.Scrollable      = (*scanView)(nil)
	_ linescan.EventSource = (*scanView)(nil)
)

func newScanView(img image.Image, nPlaces int) *scanView {
	v := &scanView{nPlaces: nPlaces}
	v.image = canvas.NewImageFromImage(img)
	v.image.FillMode = canvas.ImageFillStretch
	v.image.ScaleMode = canvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

func (v *scanView) SetHandlers(h linescan.EventHandlers) {
	v.handlers = h
}

// ShowBand moves the live rectangle: width columns from the start of b.
func (v *scanView) ShowBand(b linescan.Band, width int) {
	v.live = overlay{x0: b.X0, width: width}
	v.Refresh()
}

// AddSelection keeps a grey rectangle for a committed band, as wide as the live one.
func (v *scanView) AddSelection(rec linescan.Record) {
	v.committed = append(v.committed, overlay{x0: rec.Band.X0, width: v.live.width})
	v.Refresh()
}

// notifyClosed forwards a window close to the Closed slot.
func (v *scanView) notifyClosed() {
	if v.handlers.Closed != nil {
		v.handlers.Closed()
	}
}

// column converts a widget x coordinate to image columns.
func (v *scanView) column(x float32) (float64, bool) {
	w := v.Size().Width
	if w <= 0 || x < 0 || x >= w {
		return math.NaN(), false
	}
	return float64(x) / float64(w) * float64(v.nPlaces), true
}

func (v *scanView) pointer(pos fyne.Position) {
	if v.handlers.PointerMoved == nil {
		return
	}
	v.handlers.PointerMoved(v.column(pos.X))
}

func (v *scanView) MouseIn(e *desktop.MouseEvent) {
	v.pointer(e.Position)
}

func (v *scanView) MouseMoved(e *desktop.MouseEvent) {
	v.pointer(e.Position)
}

func (v *scanView) MouseOut() {
	if v.handlers.PointerMoved != nil {
		v.handlers.PointerMoved(math.NaN(), false)
	}
}

func (v *scanView) MouseDown(e *desktop.MouseEvent) {
	if v.handlers.ButtonPressed == nil {
		return
	}
	switch e.Button {
	case desktop.MouseButtonPrimary:
		v.handlers.ButtonPressed(linescan.ButtonLeft)
	case desktop.MouseButtonTertiary:
		v.handlers.ButtonPressed(linescan.ButtonMiddle)
	case desktop.MouseButtonSecondary:
		v.handlers.ButtonPressed(linescan.ButtonRight)
	}
}

func (v *scanView) MouseUp(*desktop.MouseEvent) {}

// Scrolled maps the wheel onto the band width: away from the user widens.
func (v *scanView) Scrolled(e *fyne.ScrollEvent) {
	if v.handlers.Scrolled == nil {
		return
	}
	switch {
	case e.Scrolled.DY > 0:
		v.handlers.Scrolled(linescan.ScrollUp)
	case e.Scrolled.DY < 0:
		v.handlers.Scrolled(linescan.ScrollDown)
	}
}

func (v *scanView) CreateRenderer() fyne.WidgetRenderer {
	r := &scanViewRenderer{view: v, live: canvas.NewRectangle(liveFill)}
	r.sync()
	return r
}

type scanViewRenderer struct {
	view      *scanView
	live      *canvas.Rectangle
	committed []*canvas.Rectangle
	objects   []fyne.CanvasObject
}

// sync creates rectangles for bands committed since the last refresh.
func (r *scanViewRenderer) sync() {
	for len(r.committed) < len(r.view.committed) {
		r.committed = append(r.committed, canvas.NewRectangle(committedFill))
	}
	r.objects = make([]fyne.CanvasObject, 0, len(r.committed)+2)
	r.objects = append(r.objects, r.view.image)
	for _, rect := range r.committed {
		r.objects = append(r.objects, rect)
	}
	r.objects = append(r.objects, r.live)
}

func (r *scanViewRenderer) Layout(size fyne.Size) {
	r.view.image.Resize(size)
	r.view.image.Move(fyne.NewPos(0, 0))
	for i, rect := range r.committed {
		r.place(rect, r.view.committed[i], size)
	}
	r.place(r.live, r.view.live, size)
}

// place stretches rect over the columns of o that fall inside the image.
func (r *scanViewRenderer) place(rect *canvas.Rectangle, o overlay, size fyne.Size) {
	c := o.span(r.view.nPlaces)
	if c.Empty() || r.view.nPlaces == 0 {
		rect.Hide()
		return
	}
	scale := size.Width / float32(r.view.nPlaces)
	rect.Move(fyne.NewPos(float32(c.X0)*scale, 0))
	rect.Resize(fyne.NewSize(float32(c.Width())*scale, size.Height))
	rect.Show()
}

func (r *scanViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *scanViewRenderer) Refresh() {
	r.sync()
	r.Layout(r.view.Size())
	for _, o := range r.objects {
		canvas.Refresh(o)
	}
}

func (r *scanViewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *scanViewRenderer) Destroy() {}
