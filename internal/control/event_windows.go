//go:build windows

package control

import "golang.org/x/sys/windows"

// WakeEvent is an auto-reset Win32 event used alongside the control pipe:
// the input thread's console-read loop waits on ReadConsoleInput's handle
// and this event together via WaitForMultipleObjects, so a control command
// can interrupt a blocked console read.
type WakeEvent struct {
	h windows.Handle
}

// NewWakeEvent creates an auto-reset event, initially unsignaled.
func NewWakeEvent() (*WakeEvent, error) {
	h, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		return nil, err
	}
	return &WakeEvent{h: h}, nil
}

// Handle returns the underlying event handle for use in a
// WaitForMultipleObjects handle set.
func (e *WakeEvent) Handle() windows.Handle { return e.h }

// Set signals the event, waking anything blocked on it. Being auto-reset,
// the event clears itself the moment a single wait is satisfied.
func (e *WakeEvent) Set() error {
	return windows.SetEvent(e.h)
}

// Close releases the event handle.
func (e *WakeEvent) Close() error {
	return windows.CloseHandle(e.h)
}

// Sink adapts a Channel and a WakeEvent into the escscan.ControlSink shape
// the output thread drives: every request both queues a command byte and
// signals the event so the input thread's wait loop notices immediately
// instead of on the next console input event.
type Sink struct {
	ch   *Channel
	wake *WakeEvent
}

// NewSink pairs a Channel with a WakeEvent for use as the scanner's
// ControlSink.
func NewSink(ch *Channel, wake *WakeEvent) *Sink {
	return &Sink{ch: ch, wake: wake}
}

func (s *Sink) RequestCursorReport() {
	if err := s.ch.Send(CursorReport); err == nil {
		s.wake.Set()
	}
}

func (s *Sink) RequestFocusResync() {
	if err := s.ch.Send(ResendFocus); err == nil {
		s.wake.Set()
	}
}

// RequestShutdown tells the input thread to stop, used during teardown.
func (s *Sink) RequestShutdown() {
	if err := s.ch.Send(Shutdown); err == nil {
		s.wake.Set()
	}
}
