package cmdline

import (
	"os"
	"strings"
	"testing"
)

func TestRawCommandLine_IncludesProgramToken(t *testing.T) {
	got := RawCommandLine()
	if !strings.Contains(got, os.Args[0]) {
		t.Errorf("RawCommandLine() = %q, want it to contain os.Args[0] = %q", got, os.Args[0])
	}
}
