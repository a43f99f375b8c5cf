package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/JackWReid/kite/internal/config"
	"github.com/JackWReid/kite/internal/editor"
	"github.com/JackWReid/kite/internal/terminal"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var showVersion bool
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kite [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("kite %s\n", editor.Version)
		return 0
	}
	if flag.NArg() > 1 {
		flag.Usage()
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kite: %v\n", err)
		return 1
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kite: %v\n", err)
		return 1
	}
	defer closeLog()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "kite: stdin is not a terminal")
		return 1
	}

	t, err := terminal.Open(log)
	if err != nil {
		log.Error().Err(err).Msg("terminal setup failed")
		fmt.Fprintf(os.Stderr, "kite: %v\n", err)
		return 1
	}

	rows, cols := t.Size()
	ed := editor.New(t, rows, cols, editor.Options{
		TabStop:        cfg.TabStop,
		QuitTimes:      cfg.QuitTimes,
		MessageTimeout: cfg.MessageTimeout(),
		Profiles:       cfg.Profiles(),
		Logger:         log,
	})

	if filename := flag.Arg(0); filename != "" {
		if err := ed.Open(filename); err != nil {
			return fatal(t, log, err)
		}
	}
	if err := ed.Run(); err != nil {
		return fatal(t, log, err)
	}

	if err := t.Restore(); err != nil {
		fmt.Fprintf(os.Stderr, "kite: %v\n", err)
		return 1
	}
	return 0
}

// fatal clears the screen and restores the terminal before reporting err.
func fatal(t *terminal.Terminal, log zerolog.Logger, err error) int {
	log.Error().Err(err).Msg("fatal error")
	io.WriteString(t, ansi.EraseEntireScreen+ansi.CursorHomePosition)
	t.Restore()
	fmt.Fprintf(os.Stderr, "kite: %v\n", err)
	return 1
}

// loadConfig reads the file named by -config, or the default config file if
// it exists.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path, true)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path, false)
}

// newLogger returns a file logger when log_file is set. The editor owns the
// terminal, so there is nowhere else to log to.
func newLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	log := zerolog.New(f).With().Timestamp().Logger().Level(cfg.Level())
	return log, func() { f.Close() }, nil
}
