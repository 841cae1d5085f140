package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// MaxFrames bounds the call frames kept in a Diagnostic. Longer stacks
// keep the outermost and innermost halves.
const MaxFrames = 4

// Frame is one call site.
type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s:%d in %s", shortFile(f.File), f.Line, shortFunc(f.Function))
}

// Diagnostic is a display-ready capture of a failure.
type Diagnostic struct {
	Type    string
	Message string
	Frames  []Frame // outermost first
	Hidden  int     // frames elided between the two halves of Frames
	Err     error
}

// PanicError carries a recovered panic value and the stack it unwound from.
type PanicError struct {
	Value any
	Stack []uintptr
}

func (e *PanicError) Error() string { return fmt.Sprint(e.Value) }

// StackTrace exposes the recorded stack in the same form as errors built
// with github.com/pkg/errors.
func (e *PanicError) StackTrace() pkgerrors.StackTrace {
	st := make(pkgerrors.StackTrace, len(e.Stack))
	for i, pc := range e.Stack {
		st[i] = pkgerrors.Frame(pc)
	}
	return st
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// NewPanicError records the current stack. It must be called directly from
// the deferred function that recovered r; that function is left out so the
// innermost recorded frame is the one that panicked.
func NewPanicError(r any) *PanicError {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(3, pcs)
	return &PanicError{Value: r, Stack: pcs[:n]}
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Capture converts err into a Diagnostic. Frames come from the stack
// recorded where the fault was raised (pkg/errors WithStack, or the
// recovered panic); errors without one carry no frames.
func Capture(err error) *Diagnostic {
	if err == nil {
		return nil
	}

	d := &Diagnostic{Type: faultType(err), Message: err.Error(), Err: err}

	var st stackTracer
	if errors.As(err, &st) {
		trace := st.StackTrace()
		pcs := make([]uintptr, len(trace))
		for i, f := range trace {
			pcs[i] = uintptr(f)
		}
		d.Frames, d.Hidden = truncate(frames(pcs), MaxFrames)
	}
	return d
}

// faultType names the outermost error in the chain that is not a generic
// wrapper or plain message.
func faultType(err error) string {
	var pe *PanicError
	if errors.As(err, &pe) {
		return "panic"
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		t := fmt.Sprintf("%T", e)
		if !strings.HasPrefix(t, "*errors.") && !strings.HasPrefix(t, "*fmt.") {
			return t
		}
	}
	return "error"
}

// frames resolves pcs outermost first, dropping runtime internals.
func frames(pcs []uintptr) []Frame {
	if len(pcs) == 0 {
		return nil
	}
	var out []Frame
	it := runtime.CallersFrames(pcs)
	for {
		f, more := it.Next()
		if f.Function != "" && !strings.HasPrefix(f.Function, "runtime.") && !strings.HasPrefix(f.Function, "testing.") {
			out = append(out, Frame{Function: f.Function, File: f.File, Line: f.Line})
		}
		if !more {
			break
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func truncate(fs []Frame, limit int) ([]Frame, int) {
	if len(fs) <= limit {
		return fs, 0
	}
	head := limit / 2
	tail := limit - head
	kept := make([]Frame, 0, limit)
	kept = append(kept, fs[:head]...)
	kept = append(kept, fs[len(fs)-tail:]...)
	return kept, len(fs) - limit
}

// Lines renders the diagnostic as a traceback excerpt.
func (d *Diagnostic) Lines() []string {
	lines := []string{"Traceback (most recent call last)"}
	head := len(d.Frames)
	if d.Hidden > 0 {
		head = len(d.Frames) / 2
	}
	for i, f := range d.Frames {
		if i == head && d.Hidden > 0 {
			lines = append(lines, fmt.Sprintf("  ... %d frames hidden ...", d.Hidden))
		}
		lines = append(lines, "  "+f.String())
	}
	return append(lines, d.Type+": "+d.Message)
}

func (d *Diagnostic) String() string { return strings.Join(d.Lines(), "\n") }

func shortFile(path string) string {
	dir, file := filepath.Split(path)
	if parent := filepath.Base(dir); parent != "." && parent != string(filepath.Separator) {
		return parent + "/" + file
	}
	return file
}

func shortFunc(fn string) string {
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		return fn[i+1:]
	}
	return fn
}
