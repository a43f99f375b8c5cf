// Package terminal drives a raw-mode terminal: key decoding, output and
// window geometry.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// readTimeout is the VTIME applied in raw mode, in tenths of a second.
const readTimeout = 1

// Terminal manages raw mode, key input and terminal dimensions.
type Terminal struct {
	in    io.Reader
	out   io.Writer
	inFd  int
	outFd int

	oldState *term.State
	rows     int
	cols     int
	sigwinch chan os.Signal
	log      zerolog.Logger
}

// Open puts stdin into raw mode with a short read timeout and measures the
// window. The terminal is restored before any error is returned.
func Open(log zerolog.Logger) (*Terminal, error) {
	t := &Terminal{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
		log:   log,
	}
	if err := t.enableRawMode(); err != nil {
		return nil, err
	}

	rows, cols, err := t.WindowSize()
	if err != nil {
		t.disableRawMode()
		return nil, fmt.Errorf("get window size: %w", err)
	}
	t.rows, t.cols = rows, cols

	// Listen for resize signals.
	t.sigwinch = make(chan os.Signal, 1)
	signal.Notify(t.sigwinch, syscall.SIGWINCH)

	return t, nil
}

func (t *Terminal) enableRawMode() error {
	state, err := term.MakeRaw(t.inFd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	t.oldState = state

	// MakeRaw blocks for a full byte; switch to a timed read so the editor
	// loop regains control without input.
	if err := setReadTimeout(t.inFd, readTimeout); err != nil {
		t.disableRawMode()
		return fmt.Errorf("set read timeout: %w", err)
	}
	t.log.Debug().Msg("raw mode enabled")
	return nil
}

func (t *Terminal) disableRawMode() error {
	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(t.inFd, t.oldState); err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	t.oldState = nil
	t.log.Debug().Msg("raw mode disabled")
	return nil
}

// Restore returns the terminal to its original state.
func (t *Terminal) Restore() error {
	if t.sigwinch != nil {
		signal.Stop(t.sigwinch)
	}
	return t.disableRawMode()
}

// Size returns the last measured window size.
func (t *Terminal) Size() (rows, cols int) { return t.rows, t.cols }

// Resize re-measures the window after a SIGWINCH. changed is false when no
// resize was signalled or the size is unchanged.
func (t *Terminal) Resize() (rows, cols int, changed bool) {
	select {
	case <-t.sigwinch:
	default:
		return t.rows, t.cols, false
	}
	r, c, err := t.WindowSize()
	if err != nil {
		t.log.Warn().Err(err).Msg("resize: window size unavailable")
		return t.rows, t.cols, false
	}
	changed = r != t.rows || c != t.cols
	t.rows, t.cols = r, c
	if changed {
		t.log.Debug().Int("rows", r).Int("cols", c).Msg("terminal resized")
	}
	return r, c, changed
}

// Write sends p to the terminal.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// ReadKey waits up to the read timeout for one keystroke. It returns a
// KeyNone key when nothing arrived.
func (t *Terminal) ReadKey() (Key, error) {
	c, ok, err := t.readByte()
	if err != nil {
		return Key{}, err
	}
	if !ok {
		return Key{Type: KeyNone}, nil
	}
	return decodeKey(c, t.readByte)
}

// readByte reads a single byte. A read that returns nothing is a timeout.
func (t *Terminal) readByte() (byte, bool, error) {
	var b [1]byte
	n, err := t.in.Read(b[:])
	if n == 1 {
		return b[0], true, nil
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, syscall.EAGAIN) {
		return 0, false, nil
	}
	return 0, false, fmt.Errorf("read input: %w", err)
}

// WindowSize returns the terminal size in rows and columns. When the size
// ioctl is unavailable it moves the cursor to the far corner and reads back
// its position instead.
func (t *Terminal) WindowSize() (rows, cols int, err error) {
	w, h, err := term.GetSize(t.outFd)
	if err == nil && w > 0 {
		return h, w, nil
	}
	t.log.Debug().Err(err).Msg("window size ioctl unavailable, probing cursor position")

	if _, err := io.WriteString(t.out, ansi.CursorForward(999)+ansi.CursorDown(999)); err != nil {
		return 0, 0, fmt.Errorf("move cursor: %w", err)
	}
	return t.cursorPosition()
}

func (t *Terminal) cursorPosition() (rows, cols int, err error) {
	if _, err := io.WriteString(t.out, ansi.RequestCursorPositionReport); err != nil {
		return 0, 0, fmt.Errorf("request cursor position: %w", err)
	}

	var buf []byte
	for len(buf) < 31 {
		b, ok, err := t.readByte()
		if err != nil {
			return 0, 0, err
		}
		if !ok || b == 'R' {
			break
		}
		buf = append(buf, b)
	}
	return parseCursorReport(buf)
}

// parseCursorReport parses "ESC [ rows ; cols" with the final R removed.
func parseCursorReport(buf []byte) (rows, cols int, err error) {
	if len(buf) < 2 || buf[0] != escape || buf[1] != '[' {
		return 0, 0, fmt.Errorf("unexpected cursor position report %q", buf)
	}
	if _, err := fmt.Sscanf(string(buf[2:]), "%d;%d", &rows, &cols); err != nil {
		return 0, 0, fmt.Errorf("parse cursor position report %q: %w", buf, err)
	}
	return rows, cols, nil
}
