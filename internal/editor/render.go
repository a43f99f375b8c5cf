package editor

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/JackWReid/kite/internal/buffer"
	"github.com/JackWReid/kite/internal/syntax"
)

const maxStatusName = 20

// RefreshScreen draws a full frame and writes it to the screen in one go.
func (e *Editor) RefreshScreen() error {
	e.scroll()

	var b strings.Builder
	// Hide cursor during drawing.
	b.WriteString(ansi.HideCursor)
	b.WriteString(ansi.CursorHomePosition)

	e.drawRows(&b)
	e.drawStatusBar(&b)
	e.drawMessageBar(&b)

	b.WriteString(ansi.CursorPosition(e.rx-e.colOff+1, e.cy-e.rowOff+1))
	b.WriteString(ansi.ShowCursor)

	if _, err := io.WriteString(e.screen, b.String()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// scroll moves the viewport so the cursor is visible.
func (e *Editor) scroll() {
	e.rx = 0
	if e.cy < e.doc.NumRows() {
		e.rx = e.doc.Rows[e.cy].CxToRx(e.cx, e.doc.TabStop)
	}

	if e.cy < e.rowOff {
		e.rowOff = e.cy
	}
	if e.cy >= e.rowOff+e.screenRows {
		e.rowOff = e.cy - e.screenRows + 1
	}
	if e.rx < e.colOff {
		e.colOff = e.rx
	}
	if e.rx >= e.colOff+e.screenCols {
		e.colOff = e.rx - e.screenCols + 1
	}
}

func (e *Editor) drawRows(b *strings.Builder) {
	for y := 0; y < e.screenRows; y++ {
		fileRow := y + e.rowOff
		switch {
		case fileRow < e.doc.NumRows():
			e.drawRow(b, e.doc.Rows[fileRow])
		case e.doc.NumRows() == 0 && y == e.screenRows/3:
			e.drawWelcome(b)
		default:
			b.WriteByte('~')
		}
		b.WriteString(ansi.EraseLineRight)
		b.WriteString("\r\n")
	}
}

func (e *Editor) drawWelcome(b *strings.Builder) {
	welcome := fmt.Sprintf("Kite editor -- version %s", Version)
	if len(welcome) > e.screenCols {
		welcome = welcome[:e.screenCols]
	}
	padding := (e.screenCols - len(welcome)) / 2
	if padding > 0 {
		b.WriteByte('~')
		padding--
	}
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(welcome)
}

// drawRow writes the visible slice of a row, switching colour only where the
// highlight class changes.
func (e *Editor) drawRow(b *strings.Builder, row *buffer.Row) {
	start := min(e.colOff, len(row.Render))
	end := min(start+e.screenCols, len(row.Render))

	current := -1
	for j := start; j < end; j++ {
		c := row.Render[j]
		switch {
		case isControl(c):
			sym := byte('?')
			if c <= 26 {
				sym = '@' + c
			}
			b.WriteString(ansi.SGR(ansi.ReverseAttr))
			b.WriteByte(sym)
			b.WriteString(ansi.ResetStyle)
			if current != -1 {
				b.WriteString(ansi.SGR(current))
			}
		case row.HL[j] == syntax.Normal:
			if current != -1 {
				b.WriteString(ansi.SGR(ansi.DefaultForegroundColorAttr))
				current = -1
			}
			b.WriteByte(c)
		default:
			if color := row.HL[j].Color(); color != current {
				current = color
				b.WriteString(ansi.SGR(color))
			}
			b.WriteByte(c)
		}
	}
	b.WriteString(ansi.SGR(ansi.DefaultForegroundColorAttr))
}

func isControl(c byte) bool { return c < 32 || c == 127 }

func (e *Editor) drawStatusBar(b *strings.Builder) {
	// Reverse video for status bar.
	b.WriteString(ansi.SGR(ansi.ReverseAttr))

	name := e.filename
	if name == "" {
		name = "[No Name]"
	}
	if len(name) > maxStatusName {
		name = name[:maxStatusName]
	}
	left := fmt.Sprintf("%s - %d lines", name, e.doc.NumRows())
	if e.doc.Dirty > 0 {
		left += " (modified)"
	}
	right := fmt.Sprintf("%s | %d/%d", syntax.Label(e.filename, e.doc.Syntax()), e.cy+1, e.doc.NumRows())

	if len(left) > e.screenCols {
		left = left[:e.screenCols]
	}
	b.WriteString(left)
	for n := len(left); n < e.screenCols; n++ {
		if e.screenCols-n == len(right) {
			b.WriteString(right)
			break
		}
		b.WriteByte(' ')
	}

	b.WriteString(ansi.ResetStyle)
	b.WriteString("\r\n")
}

func (e *Editor) drawMessageBar(b *strings.Builder) {
	b.WriteString(ansi.EraseLineRight)
	msg := e.statusMsg
	if len(msg) > e.screenCols {
		msg = msg[:e.screenCols]
	}
	if msg != "" && e.opts.Now().Sub(e.statusTime) < e.opts.MessageTimeout {
		b.WriteString(msg)
	}
}
