//go:build !windows

package launcher

import "fmt"

// Run reports that this program only operates against a host console and
// ConPTY, which are Windows-specific concepts the rest of this package
// only implements under a windows build tag. Non-Windows builds exist so
// the platform-neutral packages (sink, escscan, inputtr, control, cmdline,
// config) can be built and tested on any GOOS.
func Run(cmdLineTail string) int {
	fmt.Println("conlog: requires a Windows host console and is not supported on this platform")
	return codeNotSupported
}
