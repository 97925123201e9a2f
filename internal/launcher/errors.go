// Package launcher implements the Lifecycle Manager: it wires the Sink
// Writer, Escape Scanner, Input Translator, Control Channel, and ConPTY
// plumbing together, launches the child process, and tears everything
// down in the right order on every exit path.
package launcher

import (
	"errors"
	"fmt"
)

// launchError carries a Win32-style numeric exit code alongside a
// human-readable message, so the top-level Run can recover the most
// recently captured error code with errors.As instead of a package-level
// mutable variable — the idiomatic rendering of the C original's single
// exitCode local.
type launchError struct {
	code int
	msg  string
	err  error
}

func (e *launchError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *launchError) Unwrap() error { return e.err }

// Exit-code constants. These mirror the Win32 conventions the original
// program used (ERROR_NOT_SUPPORTED and friends); what matters is that
// each precondition/resource failure has a distinct, stable, nonzero code.
const (
	codeNotSupported     = 50   // ERROR_NOT_SUPPORTED: stdin not a console, or stdout/stderr console count != 1
	codeResourceCreation = 1450 // ERROR_NO_SYSTEM_RESOURCES: pipe/event/PTY/attribute-list/thread creation failed
	codeChildLaunch      = 2    // ERROR_FILE_NOT_FOUND-ish: child process could not be started
	codeGenericFailure   = 1    // fallback for any other captured error
)

func newLaunchError(code int, msg string, err error) *launchError {
	return &launchError{code: code, msg: msg, err: err}
}

// exitCodeFor extracts the numeric code from err via errors.As, falling
// back to codeGenericFailure for an error this package didn't construct
// itself (should not normally happen, since every fallible step here
// wraps its error in a launchError before returning it).
func exitCodeFor(err error) int {
	var le *launchError
	if errors.As(err, &le) {
		return le.code
	}
	return codeGenericFailure
}
