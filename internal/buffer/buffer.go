// Package buffer holds the document model: rows, their rendered form and
// their highlighting.
package buffer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/JackWReid/kite/internal/syntax"
)

// DefaultTabStop is the tab width used when none is configured.
const DefaultTabStop = 4

// Document is an ordered sequence of rows plus the count of unsaved changes.
type Document struct {
	Rows    []*Row
	Dirty   int
	TabStop int

	syntax *syntax.Profile
}

func NewDocument(tabStop int) *Document {
	if tabStop < 1 {
		tabStop = DefaultTabStop
	}
	return &Document{TabStop: tabStop}
}

// NumRows returns the number of rows.
func (d *Document) NumRows() int { return len(d.Rows) }

// Syntax returns the active highlight profile, or nil.
func (d *Document) Syntax() *syntax.Profile { return d.syntax }

// SetSyntax switches the highlight profile and re-highlights every row.
func (d *Document) SetSyntax(p *syntax.Profile) {
	d.syntax = p
	open := false
	for _, row := range d.Rows {
		row.HL, row.OpenComment = syntax.HighlightRow(row.Render, open, p)
		open = row.OpenComment
	}
}

// Load replaces the document with the lines read from r. Trailing CR and LF
// bytes are stripped from every line.
func (d *Document) Load(r io.Reader) error {
	d.Rows = nil
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			d.InsertRow(len(d.Rows), bytes.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read lines: %w", err)
		}
	}
	d.Dirty = 0
	return nil
}

// Bytes serialises the document, terminating every row with a newline.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	for _, row := range d.Rows {
		buf.Write(row.Chars)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// InsertRow inserts a row holding a copy of s at index at.
func (d *Document) InsertRow(at int, s []byte) {
	if at < 0 || at > len(d.Rows) {
		return
	}
	row := &Row{Index: at, Chars: append([]byte(nil), s...)}
	// The new row starts with the open state its successor inherited until now,
	// so propagation runs exactly when that input changes.
	if at > 0 {
		row.OpenComment = d.Rows[at-1].OpenComment
	}

	d.Rows = append(d.Rows, nil)
	copy(d.Rows[at+1:], d.Rows[at:])
	d.Rows[at] = row
	d.reindex(at + 1)

	d.updateRow(at)
	d.Dirty++
}

// DeleteRow removes the row at index at.
func (d *Document) DeleteRow(at int) {
	if at < 0 || at >= len(d.Rows) {
		return
	}
	d.Rows = append(d.Rows[:at], d.Rows[at+1:]...)
	d.reindex(at)
	if at < len(d.Rows) {
		d.highlightFrom(at)
	}
	d.Dirty++
}

// InsertChar inserts c into row before column at, clamped to the row.
func (d *Document) InsertChar(row, at int, c byte) {
	if row < 0 || row >= len(d.Rows) {
		return
	}
	r := d.Rows[row]
	if at < 0 {
		at = 0
	}
	if at > len(r.Chars) {
		at = len(r.Chars)
	}
	r.Chars = append(r.Chars, 0)
	copy(r.Chars[at+1:], r.Chars[at:])
	r.Chars[at] = c
	d.updateRow(row)
	d.Dirty++
}

// DeleteChar removes the byte at column at of row.
func (d *Document) DeleteChar(row, at int) {
	if row < 0 || row >= len(d.Rows) {
		return
	}
	r := d.Rows[row]
	if at < 0 || at >= len(r.Chars) {
		return
	}
	r.Chars = append(r.Chars[:at], r.Chars[at+1:]...)
	d.updateRow(row)
	d.Dirty++
}

// AppendBytes appends s to the end of row.
func (d *Document) AppendBytes(row int, s []byte) {
	if row < 0 || row >= len(d.Rows) {
		return
	}
	r := d.Rows[row]
	r.Chars = append(r.Chars, s...)
	d.updateRow(row)
	d.Dirty++
}

// JoinRows appends row at+1 onto row at and removes row at+1.
func (d *Document) JoinRows(at int) {
	if at < 0 || at+1 >= len(d.Rows) {
		return
	}
	d.AppendBytes(at, d.Rows[at+1].Chars)
	d.DeleteRow(at + 1)
}

// SplitRow breaks row at column at, moving the tail onto a new row below it.
func (d *Document) SplitRow(row, at int) {
	if row < 0 || row >= len(d.Rows) {
		return
	}
	r := d.Rows[row]
	if at < 0 {
		at = 0
	}
	if at > len(r.Chars) {
		at = len(r.Chars)
	}
	tail := append([]byte(nil), r.Chars[at:]...)
	r.Chars = r.Chars[:at]
	d.updateRow(row)
	d.InsertRow(row+1, tail)
}

func (d *Document) reindex(from int) {
	for i := from; i < len(d.Rows); i++ {
		d.Rows[i].Index = i
	}
}

// updateRow recomputes the render form of a row and re-highlights from it.
func (d *Document) updateRow(at int) {
	d.Rows[at].updateRender(d.TabStop)
	d.highlightFrom(at)
}

// highlightFrom re-highlights row at and carries on down the document for as
// long as a row's open-comment state changes.
func (d *Document) highlightFrom(at int) {
	for i := at; i < len(d.Rows); i++ {
		row := d.Rows[i]
		inherited := i > 0 && d.Rows[i-1].OpenComment
		hl, open := syntax.HighlightRow(row.Render, inherited, d.syntax)
		row.HL = hl
		changed := row.OpenComment != open
		row.OpenComment = open
		if !changed {
			break
		}
	}
}
