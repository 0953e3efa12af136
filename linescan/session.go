package linescan

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// ScrollDirection is the direction of a wheel step.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
)

func (d ScrollDirection) String() string {
	switch d {
	case ScrollUp:
		return "up"
	case ScrollDown:
		return "down"
	default:
		return "unknown"
	}
}

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
)

// State is the lifecycle state of a Session.
type State int

const (
	StateActive State = iota
	StateTerminated
)

func (s State) String() string {
	if s == StateTerminated {
		return "terminated"
	}
	return "active"
}

// Record is a committed band together with its trace.
type Record struct {
	Band   Band
	Signal Signal
}

// View receives every change a Session makes to what is on screen.
type View interface {
	// ShowBand moves the live overlay. width is the session width, which is what the overlay spans.
	ShowBand(b Band, width int)
	// ShowPreview replaces the live trace.
	ShowPreview(sig Signal)
	// AddSelection adds a persistent overlay and a static trace for a committed record.
	AddSelection(rec Record)
	// Release frees all display resources. Called once, on termination.
	Release()
}

type noopView struct{}

func (noopView) ShowBand(Band, int)  {}
func (noopView) ShowPreview(Signal)  {}
func (noopView) AddSelection(Record) {}
func (noopView) Release()            {}

// SessionConfig configures NewSession.
type SessionConfig struct {
	InitialWidth int    // 0 means DefaultWidth
	OutputPath   string // destination of the export on termination
	View         View
	Logger       *slog.Logger
}

// Session is the interactive selection state for one image.
// It is not safe for concurrent use; events are expected one at a time.
type Session struct {
	img     mat.Matrix
	nLines  int
	nPlaces int

	pos     int
	width   int
	band    Band
	preview Signal
	records []Record
	state   State

	outputPath string
	view       View
	logger     *slog.Logger
}

// NewSession creates an active session centered on the image.
func NewSession(img mat.Matrix, cfg SessionConfig) (*Session, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	nLines, nPlaces := img.Dims()
	if nLines < 1 || nPlaces < 1 {
		return nil, ErrEmptyImage
	}

	width := cfg.InitialWidth
	if width == 0 {
		width = DefaultWidth
	}

	s := &Session{
		img:        img,
		nLines:     nLines,
		nPlaces:    nPlaces,
		pos:        nPlaces / 2,
		width:      ClampWidth(width, nPlaces),
		outputPath: cfg.OutputPath,
		view:       cfg.View,
		logger:     cfg.Logger,
	}
	if s.view == nil {
		s.view = noopView{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.update()
	return s, nil
}

// PointerMoved positions the band at column floor(x). Moves outside the image are ignored.
func (s *Session) PointerMoved(x float64, inside bool) {
	if s.state == StateTerminated || !inside || math.IsNaN(x) {
		return
	}
	pos := int(math.Floor(x))
	if pos < 0 {
		pos = 0
	}
	if pos > s.nPlaces-1 {
		pos = s.nPlaces - 1
	}
	s.pos = pos
	s.update()
}

// Scroll widens (up) or narrows (down) the band by two columns.
func (s *Session) Scroll(dir ScrollDirection) {
	if s.state == StateTerminated {
		return
	}
	switch dir {
	case ScrollUp:
		s.width += 2
	case ScrollDown:
		s.width -= 2
	}
	clamped := ClampWidth(s.width, s.nPlaces)
	if clamped != s.width {
		s.logger.Debug("band width clamped", "requested", s.width, "width", clamped)
	}
	s.width = clamped
	s.update()
}

// Commit stores the current band and its trace. Only the middle button commits.
func (s *Session) Commit(button Button) {
	if s.state == StateTerminated || button != ButtonMiddle {
		return
	}
	rec := Record{Band: s.band, Signal: s.slice(s.band)}
	s.records = append(s.records, rec)
	s.logger.Info("selection committed", "index", len(s.records)-1, "band", rec.Band.String())
	s.view.AddSelection(rec)
}

// Terminate exports the committed records and releases the view.
// Events arriving afterwards are ignored.
func (s *Session) Terminate() (ExportResult, error) {
	if s.state == StateTerminated {
		return ExportResult{}, ErrTerminated
	}
	s.state = StateTerminated

	res, err := Export(s.records, s.outputPath)
	switch {
	case err != nil:
		s.logger.Error("export failed", "path", s.outputPath, "error", err)
	case res.Saved:
		s.logger.Info("writing to "+res.Path, "records", res.Records)
	default:
		s.logger.Info("exiting without saving anything")
	}

	s.view.Release()
	return res, err
}

// update recomputes the band and live trace and pushes both to the view.
func (s *Session) update() {
	s.band = ComputeBand(s.pos, s.width)
	s.preview = s.slice(s.band)
	s.view.ShowBand(s.band, s.width)
	s.view.ShowPreview(s.preview)
}

// slice extracts the part of b that lies inside the image.
func (s *Session) slice(b Band) Signal {
	clipped := b.Clip(s.nPlaces)
	if clipped.Empty() {
		return nanSignal(s.nLines)
	}
	sig, err := Extract(s.img, clipped)
	if err != nil {
		// Extract only fails for bands outside the image, which Clip rules out.
		s.logger.Error("extract failed", "band", clipped.String(), "error", err)
		return nanSignal(s.nLines)
	}
	return sig
}

// Pos returns the column the band is centered on.
func (s *Session) Pos() int { return s.pos }

// Width returns the current band width.
func (s *Session) Width() int { return s.width }

// Band returns the current (uncommitted) band.
func (s *Session) Band() Band { return s.band }

// Preview returns the live trace of the current band.
func (s *Session) Preview() Signal { return s.preview }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Lines returns the number of scan lines in the image.
func (s *Session) Lines() int { return s.nLines }

// Places returns the number of columns in the image.
func (s *Session) Places() int { return s.nPlaces }

// Records returns a copy of the committed records in commit order.
func (s *Session) Records() []Record {
	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[i] = Record{Band: r.Band, Signal: slices.Clone(r.Signal)}
	}
	return out
}
