package main

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/bob-anderson-ok/LineScanTraces/linescan"
)

// tracePresenter keeps the trace figure in sync with the session: the live trace is redrawn on
// every pointer or width change, over all committed traces.
type tracePresenter struct {
	image     *canvas.Image
	labels    linescan.PlotLabels
	wPx, hPx  float64
	preview   linescan.Signal
	committed []linescan.Record
	logger    *slog.Logger
}

func newTracePresenter(labels linescan.PlotLabels, wPx, hPx int, logger *slog.Logger) *tracePresenter {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(float32(wPx), float32(hPx)))
	return &tracePresenter{
		image:  img,
		labels: labels,
		wPx:    float64(wPx),
		hPx:    float64(hPx),
		logger: logger,
	}
}

func (p *tracePresenter) ShowPreview(sig linescan.Signal) {
	p.preview = sig
	p.render()
}

func (p *tracePresenter) AddSelection(rec linescan.Record) {
	p.committed = append(p.committed, rec)
	p.render()
}

func (p *tracePresenter) render() {
	img, err := linescan.PlotTraces(p.preview, p.committed, p.labels, p.wPx, p.hPx)
	if err != nil {
		p.logger.Error("trace plot failed", "err", err)
		return
	}
	p.image.Image = img
	p.image.Refresh()
}
