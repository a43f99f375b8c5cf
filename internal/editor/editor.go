// Package editor ties the document, the highlighter and the terminal
// together: key dispatch, prompts, search and screen drawing.
package editor

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/JackWReid/kite/internal/buffer"
	"github.com/JackWReid/kite/internal/syntax"
	"github.com/JackWReid/kite/internal/terminal"
)

// Version is shown in the welcome banner.
const Version = "0.1.0"

const (
	defaultQuitTimes      = 3
	defaultMessageTimeout = 5 * time.Second

	helpMessage = "HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find"
)

// Screen is the terminal the editor reads keys from and draws frames to.
type Screen interface {
	io.Writer
	ReadKey() (terminal.Key, error)
}

// resizer is implemented by screens that can report a new window size.
type resizer interface {
	Resize() (rows, cols int, changed bool)
}

// Options configure a new Editor. Zero values select the defaults.
type Options struct {
	TabStop        int
	QuitTimes      int
	MessageTimeout time.Duration
	Profiles       []*syntax.Profile
	Logger         zerolog.Logger
	Now            func() time.Time
}

// Editor is the state of one editing session.
type Editor struct {
	screen Screen
	doc    *buffer.Document

	cx, cy int // cursor in Chars space
	rx     int // cursor column in Render space

	rowOff, colOff         int
	screenRows, screenCols int

	filename   string
	statusMsg  string
	statusTime time.Time

	quitTimes int // Ctrl-Q presses left before a dirty quit
	quit      bool

	search search

	opts Options
	log  zerolog.Logger
}

// New returns an editor drawing to screen, which is rows by cols cells.
func New(screen Screen, rows, cols int, opts Options) *Editor {
	if opts.TabStop < 1 {
		opts.TabStop = buffer.DefaultTabStop
	}
	if opts.QuitTimes < 1 {
		opts.QuitTimes = defaultQuitTimes
	}
	if opts.MessageTimeout <= 0 {
		opts.MessageTimeout = defaultMessageTimeout
	}
	if opts.Profiles == nil {
		opts.Profiles = syntax.Builtin
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	e := &Editor{
		screen:    screen,
		doc:       buffer.NewDocument(opts.TabStop),
		quitTimes: opts.QuitTimes,
		search:    newSearch(),
		opts:      opts,
		log:       opts.Logger,
	}
	e.setSize(rows, cols)
	return e
}

// setSize adopts a window of rows by cols, two rows of which hold the status
// and message bars.
func (e *Editor) setSize(rows, cols int) {
	e.screenRows = max(rows-2, 1)
	e.screenCols = max(cols, 1)
}

// Document returns the document being edited.
func (e *Editor) Document() *buffer.Document { return e.doc }

// Filename returns the file the document is saved to, or "".
func (e *Editor) Filename() string { return e.filename }

// Cursor returns the cursor position in raw document coordinates.
func (e *Editor) Cursor() (x, y int) { return e.cx, e.cy }

// Open loads filename into the document, selecting its syntax profile first.
func (e *Editor) Open(filename string) error {
	e.filename = filename
	e.selectSyntax()

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	if err := e.doc.Load(f); err != nil {
		return fmt.Errorf("load %s: %w", filename, err)
	}
	e.log.Info().Str("file", filename).Int("rows", e.doc.NumRows()).Msg("file opened")
	return nil
}

func (e *Editor) selectSyntax() {
	p := syntax.Select(e.filename, e.opts.Profiles)
	e.doc.SetSyntax(p)
	e.log.Debug().Str("file", e.filename).Str("filetype", syntax.Label(e.filename, p)).Msg("syntax selected")
}

// Save writes the document to its file, asking for a name first when it has
// none. Write failures are reported on the status line; only a failure to
// read keys is returned.
func (e *Editor) Save() error {
	if e.filename == "" {
		name, err := e.Prompt("Save as (ESC to cancel): ", nil)
		if err != nil {
			return err
		}
		if name == "" {
			e.SetStatus("Save aborted")
			return nil
		}
		e.filename = name
		e.selectSyntax()
	}

	data := e.doc.Bytes()
	if err := os.WriteFile(e.filename, data, 0644); err != nil {
		e.log.Warn().Err(err).Str("file", e.filename).Msg("save failed")
		e.SetStatus("Can't save! I/O error: %v", err)
		return nil
	}
	e.doc.Dirty = 0
	e.log.Info().Str("file", e.filename).Int("bytes", len(data)).Msg("file saved")
	e.SetStatus("%d bytes written to disk", len(data))
	return nil
}

// SetStatus sets the message bar text and restarts its timeout.
func (e *Editor) SetStatus(format string, args ...any) {
	e.statusMsg = fmt.Sprintf(format, args...)
	e.statusTime = e.opts.Now()
}

// Run draws and dispatches keys until the user quits. On a clean quit the
// screen is cleared before returning.
func (e *Editor) Run() error {
	e.SetStatus(helpMessage)
	for !e.quit {
		if err := e.RefreshScreen(); err != nil {
			return err
		}
		key, err := e.readKey()
		if err != nil {
			return err
		}
		if key.Type == terminal.KeyNone {
			continue
		}
		if err := e.ProcessKey(key); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(e.screen, ansi.EraseEntireScreen+ansi.CursorHomePosition); err != nil {
		return fmt.Errorf("clear screen: %w", err)
	}
	return nil
}

// readKey reads one key, picking up a new window size on a timeout.
func (e *Editor) readKey() (terminal.Key, error) {
	key, err := e.screen.ReadKey()
	if err != nil {
		return terminal.Key{}, fmt.Errorf("read key: %w", err)
	}
	if key.Type == terminal.KeyNone {
		if r, ok := e.screen.(resizer); ok {
			if rows, cols, changed := r.Resize(); changed {
				e.setSize(rows, cols)
				e.log.Debug().Int("rows", rows).Int("cols", cols).Msg("editor resized")
			}
		}
	}
	return key, nil
}

// ProcessKey applies one keystroke.
func (e *Editor) ProcessKey(key terminal.Key) error {
	switch key.Type {
	case terminal.KeyNone:
		return nil
	case terminal.KeyEnter:
		e.insertNewline()
	case terminal.KeyHome:
		e.cx = 0
	case terminal.KeyEnd:
		if e.cy < e.doc.NumRows() {
			e.cx = e.doc.Rows[e.cy].Size()
		}
	case terminal.KeyBackspace:
		e.delChar()
	case terminal.KeyDelete:
		e.moveCursor(terminal.KeyRight)
		e.delChar()
	case terminal.KeyPgUp, terminal.KeyPgDn:
		e.page(key.Type)
	case terminal.KeyUp, terminal.KeyDown, terminal.KeyLeft, terminal.KeyRight:
		e.moveCursor(key.Type)
	case terminal.KeyEscape:
	case terminal.KeyByte:
		switch key.Byte {
		case terminal.Ctrl('q'):
			e.quitTimes--
			if e.doc.Dirty > 0 && e.quitTimes > 0 {
				e.SetStatus("WARNING!!! File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitTimes)
				return nil
			}
			e.quit = true
			return nil
		case terminal.Ctrl('s'):
			if err := e.Save(); err != nil {
				return err
			}
		case terminal.Ctrl('f'):
			if err := e.Find(); err != nil {
				return err
			}
		case terminal.Ctrl('l'):
		default:
			e.insertChar(key.Byte)
		}
	}
	e.quitTimes = e.opts.QuitTimes
	return nil
}

// Quitting reports whether the user has asked to quit.
func (e *Editor) Quitting() bool { return e.quit }

func (e *Editor) moveCursor(k terminal.KeyType) {
	var row *buffer.Row
	if e.cy < e.doc.NumRows() {
		row = e.doc.Rows[e.cy]
	}

	switch k {
	case terminal.KeyLeft:
		if e.cx > 0 {
			e.cx--
		} else if e.cy > 0 {
			e.cy--
			e.cx = e.doc.Rows[e.cy].Size()
		}
	case terminal.KeyRight:
		if row != nil && e.cx < row.Size() {
			e.cx++
		} else if row != nil && e.cx == row.Size() {
			e.cy++
			e.cx = 0
		}
	case terminal.KeyUp:
		if e.cy > 0 {
			e.cy--
		}
	case terminal.KeyDown:
		if e.cy < e.doc.NumRows() {
			e.cy++
		}
	}

	// Snap to the end of the new row.
	size := 0
	if e.cy < e.doc.NumRows() {
		size = e.doc.Rows[e.cy].Size()
	}
	if e.cx > size {
		e.cx = size
	}
}

func (e *Editor) page(k terminal.KeyType) {
	dir := terminal.KeyUp
	if k == terminal.KeyPgUp {
		e.cy = e.rowOff
	} else {
		dir = terminal.KeyDown
		e.cy = min(e.rowOff+e.screenRows-1, e.doc.NumRows())
	}
	for i, rows := 0, e.screenRows; i < rows; i++ {
		e.moveCursor(dir)
	}
}

func (e *Editor) insertChar(c byte) {
	if e.cy == e.doc.NumRows() {
		e.doc.InsertRow(e.doc.NumRows(), nil)
	}
	e.doc.InsertChar(e.cy, e.cx, c)
	e.cx++
}

func (e *Editor) insertNewline() {
	if e.cx == 0 {
		e.doc.InsertRow(e.cy, nil)
	} else {
		e.doc.SplitRow(e.cy, e.cx)
	}
	e.cy++
	e.cx = 0
}

func (e *Editor) delChar() {
	if e.cy == e.doc.NumRows() {
		return
	}
	if e.cx == 0 && e.cy == 0 {
		return
	}
	if e.cx > 0 {
		e.doc.DeleteChar(e.cy, e.cx-1)
		e.cx--
		return
	}
	e.cx = e.doc.Rows[e.cy-1].Size()
	e.doc.JoinRows(e.cy - 1)
	e.cy--
}
