package linescan

import "errors"

// EventHandlers are the callback slots an EventSource delivers to.
type EventHandlers struct {
	PointerMoved  func(x float64, inside bool) // x in image columns
	Scrolled      func(dir ScrollDirection)
	ButtonPressed func(button Button)
	Closed        func()
}

// EventSource delivers pointer, wheel, button and close notifications from a display.
type EventSource interface {
	SetHandlers(h EventHandlers)
}

// Bind routes the events of src to s. When the display is closed the session is
// terminated and done (if not nil) receives the export outcome.
func Bind(src EventSource, s *Session, done func(ExportResult, error)) {
	src.SetHandlers(EventHandlers{
		PointerMoved:  s.PointerMoved,
		Scrolled:      s.Scroll,
		ButtonPressed: s.Commit,
		Closed: func() {
			res, err := s.Terminate()
			if errors.Is(err, ErrTerminated) {
				return
			}
			if done != nil {
				done(res, err)
			}
		},
	})
}
