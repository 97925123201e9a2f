// Package control implements the Control Channel: the one-byte command
// path the output thread (via the Escape Scanner) uses to wake the input
// thread and ask it to do something outside the normal flow of console
// input events — resend a focus notification, or answer a cursor-position
// query on the child's behalf.
//
// The channel has two parts: a byte pipe carrying the command itself, and
// a wake signal so the input thread's blocking wait over console input
// also returns when a command has been queued on the pipe.
// The byte pipe is plain and platform-neutral (os.Pipe); the wake signal
// is a real Win32 event on Windows, exercised through the input thread's
// WaitForMultipleObjects loop in package inputtr.
package control

import "os"

// Command is a single byte written to the control pipe.
type Command byte

const (
	// Shutdown tells the input thread to stop its own loop. The lifecycle
	// manager sends it during teardown, once the child has exited.
	Shutdown Command = 0x00
	// ResendFocus asks the input thread to re-emit a focus event if its
	// last-sent state disagrees with the host console's current one.
	ResendFocus Command = 0x01
	// CursorReport asks the input thread to answer a CSI 6n device
	// status report using the current cursor position.
	CursorReport Command = 0x02
)

// Channel is the control channel's send/receive pair. Send is called from
// the output thread (and, for Shutdown, from the lifecycle manager), Recv
// from the input thread; each command is a single-byte write, so no
// locking is needed around the pipe itself.
type Channel struct {
	r *os.File
	w *os.File
}

// New creates a Channel backed by an OS pipe.
func New() (*Channel, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &Channel{r: r, w: w}, nil
}

// Send writes a single command byte. It never blocks for long: the pipe
// buffer comfortably holds far more than the handful of outstanding
// commands this protocol ever produces.
func (c *Channel) Send(cmd Command) error {
	_, err := c.w.Write([]byte{byte(cmd)})
	return err
}

// Recv reads and returns the next command byte, blocking until one
// arrives or the channel is closed.
func (c *Channel) Recv() (Command, error) {
	var buf [1]byte
	_, err := c.r.Read(buf[:])
	if err != nil {
		return 0, err
	}
	return Command(buf[0]), nil
}

// ReadFD returns the file descriptor of the receive end. inputtr's
// Windows drain loop passes it to PeekNamedPipe to check for queued
// commands before each Recv, so draining never blocks.
func (c *Channel) ReadFD() uintptr { return c.r.Fd() }

// Close closes both ends of the pipe.
func (c *Channel) Close() error {
	err1 := c.r.Close()
	err2 := c.w.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
