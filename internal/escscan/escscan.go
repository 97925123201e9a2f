// Package escscan implements the Escape Scanner: a stateful byte-at-a-time
// parser over the PTY-to-host byte stream that recognizes two ECMA-48 CSI
// sequences — the cursor-position Device Status Report (CSI 6 n), which it
// consumes, and the focus-event-reporting toggle (CSI ? 1004 h / l), which
// it acts on and then forwards — and passes everything else through to the
// Sink Writer untouched.
//
// This is deliberately not a general ANSI/VT parser — there is no terminal
// emulation of the child's output here, so the scanner only ever has an
// opinion about the two sequences above. Everything else, malformed or
// not, is re-emitted byte for byte.
package escscan

import (
	"bytes"

	"github.com/rbrown/conlog/internal/focusstate"
	"github.com/rbrown/conlog/internal/sink"
)

const esc = 0x1b

// maxAccumulator is the accumulator capacity. An escape sequence that
// grows past this is abandoned: the raw bytes collected so
// far are flushed to the sinks and the scanner resumes at IDLE on the very
// next byte (which is reprocessed, not skipped).
const maxAccumulator = 128

// maxParams is how many parameters are kept; further parameters are parsed
// (so the sequence is still consumed/forwarded correctly) but discarded.
const maxParams = 5

type state int

const (
	stateIdle state = iota
	stateAfterEsc
	stateInCSI
	stateInCSIPrivate
)

// ControlSink is the output thread's half of the Control Channel: the two
// notifications the scanner can ask the Input Translator to act on. It is
// declared here, consumer-side, so escscan stays platform-neutral and
// testable without any OS pipe or event handle.
type ControlSink interface {
	// RequestCursorReport asks the input thread to synthesize a
	// CSI <row>;<col> R response from the host console's current cursor
	// position and write it to the child's stdin.
	RequestCursorReport()
	// RequestFocusResync asks the input thread to re-emit a focus event
	// if HasFocus and AppFocus currently disagree.
	RequestFocusResync()
}

// Scanner is the escape-scanner state automaton. It is driven by Feed and
// is not safe for concurrent use — like the Sink Writer it wraps, it has a
// single owner, the output thread.
type Scanner struct {
	out   *sink.Writer
	ctrl  ControlSink
	focus *focusstate.State

	st  state
	acc []byte

	params     [maxParams]int
	paramCount int
	curParam   int
	curDigits  int
	lastDigits bool
}

// New creates a Scanner that forwards pass-through and non-intercepted
// bytes to out, and notifies ctrl when CSI 6n is observed or when CSI?1004h
// turns focus reporting on (a repeated enable sends no second request).
// focus is the state shared with the Input Translator.
func New(out *sink.Writer, ctrl ControlSink, focus *focusstate.State) *Scanner {
	return &Scanner{
		out:   out,
		ctrl:  ctrl,
		focus: focus,
		acc:   make([]byte, 0, maxAccumulator),
	}
}

// Feed processes a chunk of bytes read from the PTY, forwarding plain runs
// to the sink writer in bulk and driving the CSI automaton byte by byte
// while inside an escape sequence.
func (s *Scanner) Feed(data []byte) {
	i := 0
	for i < len(data) {
		switch s.st {
		case stateIdle:
			i = s.feedIdle(data, i)
		default:
			s.feedEscape(data[i])
			i++
		}
	}
}

// feedIdle writes the run of bytes up to (not including) the next ESC in
// one bulk append, then — if an ESC was found — starts accumulation and
// returns the index just past it.
func (s *Scanner) feedIdle(data []byte, i int) int {
	rest := data[i:]
	j := bytes.IndexByte(rest, esc)
	if j < 0 {
		s.out.Write(rest)
		return len(data)
	}
	if j > 0 {
		s.out.Write(rest[:j])
	}
	s.acc = append(s.acc[:0], esc)
	s.st = stateAfterEsc
	return i + j + 1
}

func (s *Scanner) feedEscape(b byte) {
	if len(s.acc) >= maxAccumulator {
		s.abort()
		// Reprocess b fresh, now that we're back at IDLE.
		s.feedOne(b)
		return
	}
	s.feedOne(b)
}

// feedOne dispatches a single byte according to the current (non-idle)
// automaton state. It assumes the accumulator has room for one more byte.
func (s *Scanner) feedOne(b byte) {
	switch s.st {
	case stateIdle:
		// Only reached via the overflow-reprocess path in feedEscape.
		var buf [1]byte
		buf[0] = b
		s.feedIdle(buf[:], 0)
	case stateAfterEsc:
		s.acc = append(s.acc, b)
		if b == '[' {
			s.resetParams()
			s.st = stateInCSI
			return
		}
		s.malformed()
	case stateInCSI, stateInCSIPrivate:
		s.acc = append(s.acc, b)
		switch {
		case b == '?':
			if s.st == stateInCSI && s.paramCount == 0 && s.curDigits == 0 {
				s.st = stateInCSIPrivate
			} else {
				s.malformed()
			}
		case b == ';':
			s.finishParam()
		case b >= '0' && b <= '9':
			s.curParam = s.curParam*10 + int(b-'0')
			s.curDigits++
		case isFinal(b):
			s.finishParam()
			s.handleTerminator(b)
		default:
			s.malformed()
		}
	}
}

func isFinal(b byte) bool { return b >= 0x40 && b <= 0x7e }

func (s *Scanner) resetParams() {
	s.paramCount = 0
	s.curParam = 0
	s.curDigits = 0
	s.lastDigits = false
	for i := range s.params {
		s.params[i] = 0
	}
}

func (s *Scanner) finishParam() {
	if s.paramCount < maxParams {
		s.params[s.paramCount] = s.curParam
	}
	s.paramCount++
	s.lastDigits = s.curDigits > 0
	s.curParam = 0
	s.curDigits = 0
}

// abort flushes the raw accumulator to the sinks verbatim and returns the
// automaton to IDLE. Used both for overflow and for malformed sequences.
func (s *Scanner) abort() {
	s.out.Write(s.acc)
	s.acc = s.acc[:0]
	s.st = stateIdle
}

func (s *Scanner) malformed() {
	s.abort()
}

// handleTerminator is reached once a final byte completes the CSI
// sequence. It decides whether the sequence is one of the two intercepted
// shapes and, if not, forwards the whole raw sequence verbatim.
func (s *Scanner) handleTerminator(final byte) {
	private := s.st == stateInCSIPrivate
	param0 := 0
	if s.paramCount >= 1 {
		param0 = s.params[0]
	}

	switch {
	case !private && final == 'n' && s.paramCount == 1 && s.lastDigits && param0 == 6:
		s.out.Flush()
		s.ctrl.RequestCursorReport()
	case private && final == 'h' && s.paramCount >= 1 && param0 == 1004:
		if !s.focus.ReportFocus() {
			s.focus.SetReportFocus(true)
			s.focus.SetAppFocus(!s.focus.HasFocus())
			s.ctrl.RequestFocusResync()
		}
		s.out.Write(s.acc)
	case private && final == 'l' && s.paramCount >= 1 && param0 == 1004:
		s.focus.SetReportFocus(false)
		s.out.Write(s.acc)
	default:
		s.out.Write(s.acc)
	}

	s.acc = s.acc[:0]
	s.st = stateIdle
}
