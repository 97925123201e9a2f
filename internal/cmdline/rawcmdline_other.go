//go:build !windows

package cmdline

import (
	"os"
	"strings"
)

// RawCommandLine approximates the process's command line by rejoining
// os.Args with single spaces. conlog only runs for real on Windows (see
// internal/launcher); this exists so the platform-neutral packages build
// and test on any GOOS, not as a faithful stand-in for GetCommandLineW.
func RawCommandLine() string {
	return strings.Join(os.Args, " ")
}
