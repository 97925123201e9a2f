//go:build windows

package inputtr

import (
	"io"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/rbrown/conlog/internal/control"
	"github.com/rbrown/conlog/internal/focusstate"
)

var (
	kernel32                   = windows.NewLazySystemDLL("kernel32.dll")
	procReadConsoleInputW      = kernel32.NewProc("ReadConsoleInputW")
	procWaitForMultipleObjects = kernel32.NewProc("WaitForMultipleObjects")
	procPeekNamedPipe          = kernel32.NewProc("PeekNamedPipe")
)

// Console INPUT_RECORD event types.
const (
	keyEvent              = 0x0001
	windowBufferSizeEvent = 0x0004
	focusEvent            = 0x0010
)

// dwControlKeyState bit masks (wincon.h).
const (
	rightAltPressed  = 0x0001
	leftAltPressed   = 0x0002
	rightCtrlPressed = 0x0004
	leftCtrlPressed  = 0x0008
	shiftPressed     = 0x0010
)

// inputRecord mirrors Win32's INPUT_RECORD: a WORD discriminant, 2 bytes
// of padding to align the union, and a 16-byte union big enough for every
// member this translator cares about (KEY_EVENT_RECORD is the largest).
type inputRecord struct {
	EventType uint16
	_         uint16
	Event     [16]byte
}

type keyEventRecord struct {
	KeyDown         int32
	RepeatCount     uint16
	VirtualKeyCode  uint16
	VirtualScanCode uint16
	UnicodeChar     uint16
	ControlKeyState uint32
}

type windowBufferSizeRecord struct {
	SizeX int16
	SizeY int16
}

type focusEventRecord struct {
	SetFocus int32
}

func readConsoleInput(h windows.Handle) (inputRecord, error) {
	var rec inputRecord
	var n uint32
	r, _, e := procReadConsoleInputW.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&rec)),
		1,
		uintptr(unsafe.Pointer(&n)),
	)
	if r == 0 {
		return inputRecord{}, e
	}
	return rec, nil
}

// waitForMultipleObjects blocks until one of handles is signaled and
// returns its index.
func waitForMultipleObjects(handles []windows.Handle) (int, error) {
	const (
		waitInfinite = 0xFFFFFFFF
		waitFailed   = 0xFFFFFFFF
	)
	r, _, e := procWaitForMultipleObjects.Call(
		uintptr(len(handles)),
		uintptr(unsafe.Pointer(&handles[0])),
		0,
		waitInfinite,
	)
	if r == waitFailed {
		return 0, e
	}
	return int(r), nil
}

// peekPipeAvail reports how many bytes are queued in the pipe without
// consuming them, so the control drain loop never blocks in a read.
func peekPipeAvail(h windows.Handle) (uint32, error) {
	var avail uint32
	r, _, e := procPeekNamedPipe.Call(
		uintptr(h),
		0, 0, 0,
		uintptr(unsafe.Pointer(&avail)),
		0,
	)
	if r == 0 {
		return 0, e
	}
	return avail, nil
}

// Resizer is the PTY-facing half of window-resize handling.
type Resizer interface {
	Resize(cols, rows int) error
}

// CursorPositioner answers the host console's current cursor position,
// used to synthesize the Device Status Report response.
type CursorPositioner interface {
	CursorPosition() (row, col int, err error)
}

// Translator owns the input thread's run loop: it waits on the host
// console input handle and the control-channel wake event, translates
// what it reads into child-stdin bytes, and forwards resize events to
// the PTY.
type Translator struct {
	consoleIn  windows.Handle
	childStdin io.Writer
	pty        Resizer
	cursor     CursorPositioner
	ctrl       *control.Channel
	wake       *control.WakeEvent
	focus      *focusstate.State
	dec        SurrogateDecoder
}

// New creates a Translator. consoleIn is the host console's input handle
// (already placed in the raw/window-input mode the lifecycle manager
// sets up); childStdin is the write side of the PTY's input pipe.
func New(consoleIn windows.Handle, childStdin io.Writer, pty Resizer, cursor CursorPositioner, ctrl *control.Channel, wake *control.WakeEvent, focus *focusstate.State) *Translator {
	return &Translator{
		consoleIn:  consoleIn,
		childStdin: childStdin,
		pty:        pty,
		cursor:     cursor,
		ctrl:       ctrl,
		wake:       wake,
		focus:      focus,
	}
}

// Run drives the input thread until a shutdown command arrives on the
// control channel or a console/pipe operation fails.
func (t *Translator) Run() error {
	handles := []windows.Handle{t.consoleIn, t.wake.Handle()}
	for {
		idx, err := waitForMultipleObjects(handles)
		if err != nil {
			return err
		}
		switch idx {
		case 0:
			rec, err := readConsoleInput(t.consoleIn)
			if err != nil {
				return err
			}
			t.handleRecord(rec)
		case 1:
			stop, err := t.drainControl()
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
}

func (t *Translator) handleRecord(rec inputRecord) {
	switch rec.EventType {
	case keyEvent:
		kr := (*keyEventRecord)(unsafe.Pointer(&rec.Event[0]))
		if kr.KeyDown == 0 {
			return
		}
		t.handleKey(kr)
	case windowBufferSizeEvent:
		wr := (*windowBufferSizeRecord)(unsafe.Pointer(&rec.Event[0]))
		_ = t.pty.Resize(int(wr.SizeX), int(wr.SizeY))
	case focusEvent:
		fr := (*focusEventRecord)(unsafe.Pointer(&rec.Event[0]))
		t.handleFocus(fr.SetFocus != 0)
	}
}

func (t *Translator) handleKey(kr *keyEventRecord) {
	ctrlHeld := kr.ControlKeyState&(leftCtrlPressed|rightCtrlPressed) != 0

	if kr.UnicodeChar != 0 {
		if b := TranscodeChar(&t.dec, kr.UnicodeChar, ctrlHeld); b != nil {
			t.writeChild(b)
		}
		return
	}

	mods := Modifiers{
		Shift: kr.ControlKeyState&shiftPressed != 0,
		Alt:   kr.ControlKeyState&(leftAltPressed|rightAltPressed) != 0,
		Ctrl:  ctrlHeld,
	}
	if seq, ok := EmitFunctionKey(VirtualKey(kr.VirtualKeyCode), mods); ok {
		t.writeChild(seq)
	}
}

func (t *Translator) handleFocus(gained bool) {
	if b := FocusTransition(t.focus, gained); b != nil {
		t.writeChild(b)
	}
}

// drainControl non-blockingly reads every currently queued control byte
// and acts on it. stop is true once a shutdown command is seen.
func (t *Translator) drainControl() (stop bool, err error) {
	for {
		avail, err := peekPipeAvail(windows.Handle(t.ctrl.ReadFD()))
		if err != nil {
			return false, err
		}
		if avail == 0 {
			return false, nil
		}

		cmd, err := t.ctrl.Recv()
		if err != nil {
			return false, err
		}
		switch cmd {
		case control.Shutdown:
			return true, nil
		case control.ResendFocus:
			t.handleFocus(t.focus.HasFocus())
		case control.CursorReport:
			t.sendCursorReport()
		}
	}
}

func (t *Translator) sendCursorReport() {
	row, col, err := t.cursor.CursorPosition()
	if err != nil {
		return
	}
	t.writeChild(CursorReport(row, col))
}

func (t *Translator) writeChild(p []byte) {
	for len(p) > 0 {
		n, err := t.childStdin.Write(p)
		if n <= 0 || err != nil {
			return
		}
		p = p[n:]
	}
}
