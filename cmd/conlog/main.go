// Command conlog hosts a child command inside a host-allocated
// pseudo-console while tee'ing its output to both a console device and a
// redirected file or pipe, and translating host console input into the
// child's stdin as terminal escape sequences.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rbrown/conlog/internal/cmdline"
	"github.com/rbrown/conlog/internal/config"
	"github.com/rbrown/conlog/internal/launcher"
)

// setupLogger points the standard logger at cfg's log file, or discards
// it entirely when none is configured — this program is silent by
// default, matching the original's zero-configuration operation.
func setupLogger(cfg *config.Config) (*os.File, error) {
	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	if !cfg.Verbose {
		log.SetFlags(log.Ldate | log.Ltime)
	}
	return f, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-f config.yaml] <command>\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Runs <command> inside a pseudo-console, tee'ing its output to the\n")
	fmt.Fprintf(os.Stderr, "console and to whatever stdout/stderr has been redirected to.\n")
	fmt.Fprintf(os.Stderr, "If <command> is omitted, COMSPEC is used.\n\n")
	fmt.Fprintf(os.Stderr, "  -f path   path to an optional YAML config file (log_file, verbose)\n")
}

func main() {
	if len(os.Args) == 2 && (os.Args[1] == "-h" || os.Args[1] == "-help" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(2)
	}

	// cmdline.RawCommandLine reads the process's command line straight
	// from the OS instead of working from os.Args, which the Go runtime
	// has already split on whitespace and de-quoted by the time main
	// runs. Splitting it again with flag.Args() and rejoining the pieces
	// with single spaces would lose any quoting the child's own
	// arguments depend on, so conlog's own program token and "-f" option
	// are stripped directly off the raw text instead, leaving the
	// child's command line untouched.
	tail := cmdline.ParseCommandTail(cmdline.RawCommandLine())
	configPath, childCmdLine := cmdline.ExtractConfigFlag(tail)

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conlog: loading config %q: %v\n", configPath, err)
		cfg = &config.Config{}
	}

	logFile, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conlog: opening log file %q: %v\n", cfg.LogFile, err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	log.Printf("starting: program=%q child command=%q", os.Args[0], childCmdLine)

	os.Exit(launcher.Run(childCmdLine))
}
