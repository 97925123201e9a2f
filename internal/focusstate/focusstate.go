// Package focusstate holds the three cross-thread booleans shared between
// the Escape Scanner (output thread) and the Input Translator (input
// thread): whether the child has asked for focus-event reporting, what
// focus state the child was last told about, and the host console's last
// observed focus state.
//
// Each field has a single steady-state writer (ReportFocus: the scanner;
// HasFocus and AppFocus: the input translator), with one deliberate
// exception — the scanner also writes AppFocus once, to force a mismatch,
// when it turns reporting on (see the focus-enable case in escscan's
// handleTerminator). atomic.Bool gives every read/write acquire-release
// semantics without a mutex; the control-channel wake event is what
// actually orders the cross-thread handoff in time.
package focusstate

import "sync/atomic"

// State is the shared focus bookkeeping between the output and input
// threads. The zero value is valid: reporting off, not focused, in sync.
type State struct {
	reportFocus atomic.Bool
	appFocus    atomic.Bool
	hasFocus    atomic.Bool
}

func (s *State) ReportFocus() bool     { return s.reportFocus.Load() }
func (s *State) SetReportFocus(v bool) { s.reportFocus.Store(v) }
func (s *State) AppFocus() bool        { return s.appFocus.Load() }
func (s *State) SetAppFocus(v bool)    { s.appFocus.Store(v) }
func (s *State) HasFocus() bool        { return s.hasFocus.Load() }
func (s *State) SetHasFocus(v bool)    { s.hasFocus.Store(v) }
