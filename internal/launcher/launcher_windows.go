//go:build windows

package launcher

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/rbrown/conlog/internal/cmdline"
	"github.com/rbrown/conlog/internal/conpty"
	"github.com/rbrown/conlog/internal/control"
	"github.com/rbrown/conlog/internal/escscan"
	"github.com/rbrown/conlog/internal/focusstate"
	"github.com/rbrown/conlog/internal/inputtr"
	"github.com/rbrown/conlog/internal/sink"
)

// Console mode bits this program cares about (wincon.h). Only the subset
// referenced directly below is touched; everything else in a saved mode
// is preserved untouched by SetMode/Restore.
const (
	enableProcessedInput       = 0x0001
	enableLineInput            = 0x0002
	enableEchoInput            = 0x0004
	enableWindowInput          = 0x0008
	enableVirtualTerminalInput = 0x0200

	enableProcessedOutput       = 0x0001
	enableVirtualTerminalOutput = 0x0004
)

// Run executes the full lifecycle: it probes the standard streams, sets
// up the pseudo-console and the two worker threads, launches the child
// named by cmdLineTail (falling back to COMSPEC if it's empty), waits for
// it, and tears everything down. It returns the process's intended exit
// code: the child's own on success, otherwise a launchError code.
// cmdLineTail is expected to already have conlog's own program token and
// options stripped off by the caller (see internal/cmdline), since that
// stripping has to happen against the process's actual command-line text
// to avoid corrupting any quoting the child's own arguments depend on.
func Run(cmdLineTail string) int {
	conpty.SuppressCriticalErrorDialogs()

	ctrlCh, err := control.New()
	if err != nil {
		return reportAndExit(nil, newLaunchError(codeResourceCreation, "create control pipe", err))
	}
	defer ctrlCh.Close()

	wake, err := control.NewWakeEvent()
	if err != nil {
		return reportAndExit(nil, newLaunchError(codeResourceCreation, "create wake event", err))
	}
	defer wake.Close()

	stdinH, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return reportAndExit(nil, newLaunchError(codeResourceCreation, "get stdin handle", err))
	}
	stdoutH, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return reportAndExit(nil, newLaunchError(codeResourceCreation, "get stdout handle", err))
	}
	stderrH, err := windows.GetStdHandle(windows.STD_ERROR_HANDLE)
	if err != nil {
		return reportAndExit(nil, newLaunchError(codeResourceCreation, "get stderr handle", err))
	}

	consoleIn := conpty.Open(stdinH)
	consoleOut := conpty.Open(stdoutH)
	consoleErr := conpty.Open(stderrH)

	restore := func() {
		consoleIn.Restore()
		consoleOut.Restore()
		consoleErr.Restore()
	}

	if !consoleIn.IsConsole() {
		restore()
		return reportAndExit(nil, newLaunchError(codeNotSupported, "stdin is not a console", nil))
	}
	if err := consoleIn.SetMode(enableWindowInput, enableLineInput|enableEchoInput|enableProcessedInput); err != nil {
		restore()
		return reportAndExit(nil, newLaunchError(codeNotSupported, "set stdin console mode", err))
	}

	// Exactly one of stdout/stderr must be a console.
	if consoleOut.IsConsole() == consoleErr.IsConsole() {
		restore()
		return reportAndExit(nil, newLaunchError(codeNotSupported, "exactly one of stdout/stderr must be a console", nil))
	}

	// Swap the standard handles so error text lands on the console,
	// preserving the asymmetry the original program has always had (see
	// DESIGN.md's open-question decision).
	var consoleChan, fileChan *conpty.ConsoleHandle
	if consoleErr.IsConsole() {
		consoleChan, fileChan = consoleErr, consoleOut
		windows.SetStdHandle(windows.STD_OUTPUT_HANDLE, consoleErr.Handle())
		windows.SetStdHandle(windows.STD_ERROR_HANDLE, consoleOut.Handle())
	} else {
		consoleChan, fileChan = consoleOut, consoleErr
		windows.SetStdHandle(windows.STD_OUTPUT_HANDLE, consoleOut.Handle())
		windows.SetStdHandle(windows.STD_ERROR_HANDLE, consoleOut.Handle())
	}

	if err := conpty.SetOutputCodePageUTF8(); err != nil {
		log.Printf("set output code page to UTF-8: %v", err)
	}

	childCmdLine, err := cmdline.ResolveCommand(cmdLineTail)
	if err != nil {
		restore()
		return reportAndExit(nonConsoleWriter(fileChan), newLaunchError(codeNotSupported, "resolve child command", err))
	}

	if err := consoleChan.SetMode(enableProcessedOutput|enableVirtualTerminalOutput, 0); err != nil {
		restore()
		return reportAndExit(nonConsoleWriter(fileChan), newLaunchError(codeResourceCreation, "enable console VT output", err))
	}
	cols, rows, err := consoleChan.ScreenBufferSize()
	if err != nil {
		restore()
		return reportAndExit(nonConsoleWriter(fileChan), newLaunchError(codeResourceCreation, "query console screen buffer", err))
	}

	// The child gets the command-line tail verbatim via SysProcAttr.CmdLine
	// rather than exec.Command's argv quoting, so whatever quoting the user
	// wrote reaches CreateProcess untouched. exec.Command still resolves
	// the program token against PATH for us.
	cmd := exec.Command(cmdline.FirstToken(childCmdLine))
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: childCmdLine}
	pty, err := conpty.NewPTY(cmd, cols, rows)
	if err != nil {
		restore()
		return reportAndExit(nonConsoleWriter(fileChan), newLaunchError(codeChildLaunch, "launch child in pseudo-console", err))
	}
	defer pty.Close()

	focus := &focusstate.State{}
	ctrlSink := control.NewSink(ctrlCh, wake)

	writer := sink.New([]sink.Channel{
		{Writer: consoleChan.File(), Console: true},
		{Writer: fileChan.File(), Console: false},
	})
	scanner := escscan.New(writer, ctrlSink, focus)

	translator := inputtr.New(stdinH, pty.InPipe(), pty, consoleChan, ctrlCh, wake, focus)

	outputDone := make(chan struct{})
	go func() {
		defer close(outputDone)
		buf := make([]byte, sink.BufferSize)
		for {
			n, err := pty.OutPipe().Read(buf)
			if n > 0 {
				scanner.Feed(buf[:n])
				// Flush per read so interactive output (prompts, partial
				// lines) reaches both sinks without waiting for the
				// buffer to fill.
				writer.Flush()
			}
			if err != nil {
				writer.Flush()
				return
			}
		}
	}()

	inputDone := make(chan struct{})
	go func() {
		defer close(inputDone)
		if err := translator.Run(); err != nil {
			log.Printf("input thread exited: %v", err)
		}
	}()

	waitErr := cmd.Wait()

	ctrlSink.RequestShutdown()
	<-inputDone
	pty.Close()
	<-outputDone

	restore()

	// cmd.ProcessState is populated whenever the child actually ran to
	// completion, whether it exited zero, nonzero, or via signal — that
	// counts as "exited normally", and its own exit code takes precedence
	// over anything else. Only the absence of a ProcessState (the child
	// was never truly reaped) is a real launch failure at this point,
	// since conpty.NewPTY already succeeded.
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return reportAndExit(nonConsoleWriter(fileChan), newLaunchError(codeChildLaunch, "wait for child process", waitErr))
}

// reportAndExit writes a human-readable message for err to w (the
// non-console sink, when one is known) and returns err's numeric code.
// This only happens when no child exit code was ever obtained; a nil w
// means the failure happened before either output channel was resolved,
// so the message goes to the process's own stderr.
func reportAndExit(w *os.File, err error) int {
	if w != nil {
		fmt.Fprintf(w, "conlog: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "conlog: %v\n", err)
	}
	return exitCodeFor(err)
}

func nonConsoleWriter(ch *conpty.ConsoleHandle) *os.File {
	if ch == nil {
		return nil
	}
	return ch.File()
}
