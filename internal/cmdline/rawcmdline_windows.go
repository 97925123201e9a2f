//go:build windows

package cmdline

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procGetCommandLineW = kernel32.NewProc("GetCommandLineW")
)

// RawCommandLine returns the process's command line exactly as Windows
// handed it to CreateProcess, preserving every embedded quote. This is
// the same string CommandLineToArgvW and the C runtime's own argv
// parsing start from — os.Args, by contrast, has already been split on
// whitespace and de-quoted by the Go runtime, which loses the quoting a
// child command line may depend on.
func RawCommandLine() string {
	r, _, _ := procGetCommandLineW.Call()
	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(r)))
}
