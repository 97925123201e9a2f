//go:build windows

package conpty

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                       = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleScreenBufferInfo = kernel32.NewProc("GetConsoleScreenBufferInfo")
	procSetConsoleOutputCP         = kernel32.NewProc("SetConsoleOutputCP")
	procSetErrorMode               = kernel32.NewProc("SetErrorMode")
)

// SEM_FAILCRITICALERRORS and SEM_NOGPFAULTERRORBOX (winbase.h).
const (
	semFailCriticalErrors = 0x0001
	semNoGPFaultErrorBox  = 0x0002
)

// SuppressCriticalErrorDialogs disables the OS's blocking "no disk in
// drive" / unhandled-exception dialog boxes: this program runs attached
// to a console with no one present to dismiss them.
func SuppressCriticalErrorDialogs() {
	procSetErrorMode.Call(uintptr(semFailCriticalErrors | semNoGPFaultErrorBox))
}

// codePageUTF8 is CP_UTF8.
const codePageUTF8 = 65001

// ConsoleHandle wraps one of the three standard handles (stdin, stdout,
// stderr) along with its pre-run console mode, so the lifecycle manager
// can set the mode it needs and unconditionally restore the original on
// every exit path.
type ConsoleHandle struct {
	h         windows.Handle
	savedMode uint32
	isConsole bool
}

// Open wraps an existing standard handle and probes whether it denotes a
// console device, recording its current mode if so.
func Open(h windows.Handle) *ConsoleHandle {
	ch := &ConsoleHandle{h: h}
	if err := windows.GetConsoleMode(h, &ch.savedMode); err == nil {
		ch.isConsole = true
	}
	return ch
}

// IsConsole reports whether the wrapped handle is a console device.
func (c *ConsoleHandle) IsConsole() bool { return c.isConsole }

// Handle returns the underlying OS handle.
func (c *ConsoleHandle) Handle() windows.Handle { return c.h }

// File wraps the underlying handle as an *os.File so it can be used
// anywhere an io.Writer/io.Reader is expected (the Sink Writer's
// channels, error-message output). The returned *os.File shares the
// handle rather than owning it; closing it would close the standard
// stream out from under the rest of the process, so callers only ever
// write through it.
func (c *ConsoleHandle) File() *os.File {
	return os.NewFile(uintptr(c.h), "")
}

// SetMode applies add with the given bits added and remove's bits
// cleared, relative to the mode saved when this handle was opened.
func (c *ConsoleHandle) SetMode(add, remove uint32) error {
	mode := (c.savedMode | add) &^ remove
	return windows.SetConsoleMode(c.h, mode)
}

// Restore reapplies the mode this handle had when Open was called.
func (c *ConsoleHandle) Restore() error {
	if !c.isConsole {
		return nil
	}
	return windows.SetConsoleMode(c.h, c.savedMode)
}

// SetOutputCodePageUTF8 sets the process console output code page to
// UTF-8, matching the assumption (stated as a non-goal elsewhere) that
// output bytes need no charset conversion.
func SetOutputCodePageUTF8() error {
	r, _, e := procSetConsoleOutputCP.Call(codePageUTF8)
	if r == 0 {
		return e
	}
	return nil
}

// consoleScreenBufferInfo mirrors CONSOLE_SCREEN_BUFFER_INFO.
type consoleScreenBufferInfo struct {
	dwSize              [2]int16 // X, Y
	dwCursorPosition    [2]int16 // X, Y
	wAttributes         uint16
	srWindow            [4]int16 // Left, Top, Right, Bottom
	dwMaximumWindowSize [2]int16 // X, Y
}

func getScreenBufferInfo(h windows.Handle) (consoleScreenBufferInfo, error) {
	var info consoleScreenBufferInfo
	r, _, e := procGetConsoleScreenBufferInfo.Call(uintptr(h), uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return consoleScreenBufferInfo{}, e
	}
	return info, nil
}

// ScreenBufferSize returns the console screen buffer's column and row
// count, used to size the pseudo-console at startup.
func (c *ConsoleHandle) ScreenBufferSize() (cols, rows int, err error) {
	info, err := getScreenBufferInfo(c.h)
	if err != nil {
		return 0, 0, fmt.Errorf("get console screen buffer info: %w", err)
	}
	return int(info.dwSize[0]), int(info.dwSize[1]), nil
}

// CursorPosition implements inputtr.CursorPositioner: it returns the
// console's current cursor row/column, 0-indexed.
func (c *ConsoleHandle) CursorPosition() (row, col int, err error) {
	info, err := getScreenBufferInfo(c.h)
	if err != nil {
		return 0, 0, fmt.Errorf("get console screen buffer info: %w", err)
	}
	return int(info.dwCursorPosition[1]), int(info.dwCursorPosition[0]), nil
}
