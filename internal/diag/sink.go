package diag

import (
	"fmt"

	"synapse/internal/source"
)

// Mode selects how a Sink treats errors.
type Mode uint8

const (
	// ModeLenient records a positioned diagnostic and lets the caller
	// continue with a placeholder.
	ModeLenient Mode = iota
	// ModeStrict turns every error into a Fault. Used when there is no
	// source to point at, e.g. while re-validating a decoded binding.
	ModeStrict
)

func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "lenient"
}

// Fault is a non-recoverable error raised by a strict Sink.
type Fault struct {
	Code    Code
	Message string
	Span    source.Span
}

func (f *Fault) Error() string {
	if f.Span.Empty() && f.Span.Start == 0 {
		return fmt.Sprintf("%s: %s", f.Code.ID(), f.Message)
	}
	return fmt.Sprintf("%s at %s: %s", f.Code.ID(), f.Span, f.Message)
}

// Sink is the error sink handed down to binding and rendering code.
// In lenient mode errors go to the Reporter and Error returns nil;
// in strict mode Error returns a *Fault and nothing is recorded.
type Sink struct {
	Reporter Reporter
	Mode     Mode
}

// NewSink returns a lenient sink writing to r.
func NewSink(r Reporter) *Sink {
	return &Sink{Reporter: r, Mode: ModeLenient}
}

// StrictSink returns a sink that faults on the first error.
func StrictSink() *Sink {
	return &Sink{Mode: ModeStrict}
}

// Strict reports whether errors abort the current operation.
func (s *Sink) Strict() bool {
	return s == nil || s.Mode == ModeStrict || s.Reporter == nil
}

// Error reports an error-level diagnostic.
func (s *Sink) Error(code Code, sp source.Span, msg string) error {
	if s.Strict() {
		return &Fault{Code: code, Message: msg, Span: sp}
	}
	ReportError(s.Reporter, code, sp, msg).Emit()
	return nil
}

// Errorf is Error with formatting.
func (s *Sink) Errorf(code Code, sp source.Span, format string, args ...any) error {
	return s.Error(code, sp, fmt.Sprintf(format, args...))
}

// ErrorWithNote reports an error carrying one secondary note.
func (s *Sink) ErrorWithNote(code Code, sp source.Span, msg string, noteSpan source.Span, note string) error {
	if s.Strict() {
		return &Fault{Code: code, Message: msg, Span: sp}
	}
	ReportError(s.Reporter, code, sp, msg).WithNote(noteSpan, note).Emit()
	return nil
}

// Warn reports a warning. Strict sinks drop warnings.
func (s *Sink) Warn(code Code, sp source.Span, msg string) {
	if s.Strict() {
		return
	}
	ReportWarning(s.Reporter, code, sp, msg).Emit()
}
