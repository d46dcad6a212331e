package pdf

import (
	"errors"
	"fmt"
	"time"
)

// ErrGhostscriptNotFound is returned when no ghostscript binary is present on
// PATH. Every request fails the same way until the deployment is fixed, so
// callers should surface it distinctly from per-request processing errors.
var ErrGhostscriptNotFound = errors.New("ghostscript not found in PATH (tried gs, gswin64c, gswin32c)")

// StructuralError means the input could not be parsed as a PDF document.
// Retrying with the same input is pointless.
type StructuralError struct {
	Path string
	Err  error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("not a readable PDF: %s: %v", e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// TimeoutError means ghostscript exceeded its wall-clock bound and was killed.
// Recoverable: a smaller input or lower quality may succeed.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("ghostscript timed out after %v", e.Timeout)
}

// ExecError means ghostscript exited non-zero. Stdout and Stderr carry the
// captured console output verbatim for server-side diagnostics.
type ExecError struct {
	Err    error
	Stdout string
	Stderr string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("ghostscript failed: %v", e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Diagnostics returns the captured console output for logging.
func (e *ExecError) Diagnostics() string {
	return fmt.Sprintf("STDERR:\n%s\nSTDOUT:\n%s", e.Stderr, e.Stdout)
}
