// Package main is the entry point for the pyrite editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/wkeeling/pyrite/internal/app"
	"github.com/wkeeling/pyrite/internal/config/state"
	"github.com/wkeeling/pyrite/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	configPath string
	logPath    string
	logLevel   string
	files      []string
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: pyrite must be run in a terminal")
		return 1
	}

	logFile, err := logging.OpenFile(f.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logFile.Close()

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(f.logLevel),
		Output: logFile,
		Prefix: "pyrite",
	})
	logging.SetDefault(log)
	log.Info("starting pyrite %s (%s)", version, commit)

	application, err := app.New(app.Options{
		ConfigPath: f.configPath,
		Files:      f.files,
		Logger:     log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		sig, ok := <-signals
		if ok {
			log.Info("received %s", sig)
			application.Stop()
		}
	}()

	if err := application.Run(); err != nil {
		log.Error("run: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() flags {
	var f flags
	var showVersion, showHelp bool

	flag.StringVar(&f.configPath, "config", "", "Path to settings file (default ~/.pyrite.settings)")
	flag.StringVar(&f.configPath, "c", "", "Path to settings file (shorthand)")
	flag.StringVar(&f.logPath, "log", filepath.Join(state.DataDir(), "pyrite.log"), "Path to log file")
	flag.StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pyrite - a terminal text editor with column editing\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pyrite [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nColumn editing:\n")
		fmt.Fprintf(os.Stderr, "  Alt+Shift+Arrow             Extend a column block\n")
		fmt.Fprintf(os.Stderr, "  Alt+drag                    Select a column block with the mouse\n")
		fmt.Fprintf(os.Stderr, "  Esc                         Leave column mode\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("pyrite %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch f.logLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.logLevel)
		os.Exit(1)
	}

	f.files = flag.Args()
	return f
}
