// Package conpty owns the Windows console-facing half of the launcher:
// saving and restoring console modes, setting the output code page,
// querying the screen buffer for size and cursor position, and wrapping
// the child's pseudo-console via github.com/creack/pty.
package conpty

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// PTY wraps the pseudo-console a child process runs inside: a single
// bidirectional handle (pty.Start's ptmx) that is simultaneously the
// read side of the child's output and the write side of its input.
type PTY struct {
	ptmx     *os.File
	closeOne sync.Once
	closeErr error
}

// NewPTY starts cmd attached to a new pseudo-console sized cols×rows.
func NewPTY(cmd *exec.Cmd, cols, rows int) (*PTY, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("start pseudo-console: %w", err)
	}
	p := &PTY{ptmx: ptmx}
	if err := p.Resize(cols, rows); err != nil {
		return nil, fmt.Errorf("size pseudo-console: %w", err)
	}
	return p, nil
}

// Resize implements inputtr.Resizer.
func (p *PTY) Resize(cols, rows int) error {
	return pty.Setsize(p.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

// InPipe is the write side of the host-to-child byte stream: the Input
// Translator writes the bytes it synthesizes here.
func (p *PTY) InPipe() io.Writer { return p.ptmx }

// OutPipe is the read side of the child-to-host byte stream: the Escape
// Scanner reads the child's output here.
func (p *PTY) OutPipe() io.Reader { return p.ptmx }

// Close tears down the pseudo-console. The child's exit is awaited
// separately via cmd.Wait by the caller; closing the pseudo-console here
// is what makes the output thread's blocking read return. Close is safe
// to call more than once — the lifecycle manager closes it explicitly to
// unblock the output thread and then again via defer on the way out —
// only the first call reaches the underlying handle.
func (p *PTY) Close() error {
	p.closeOne.Do(func() {
		p.closeErr = p.ptmx.Close()
	})
	return p.closeErr
}
