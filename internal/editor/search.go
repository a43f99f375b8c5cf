package editor

import (
	"bytes"

	"github.com/JackWReid/kite/internal/syntax"
	"github.com/JackWReid/kite/internal/terminal"
)

const findPrompt = "Search (Use ESC/Arrows/Enter): "

// search is the state of an incremental search between keystrokes.
type search struct {
	lastMatch int  // row of the current match, -1 for none
	forward   bool
	matched   bool // the latest scan found the query

	savedRow int
	savedHL  []syntax.Class // highlight of savedRow before the match was painted
}

func newSearch() search {
	return search{lastMatch: -1, forward: true}
}

// Find runs an incremental search. Escape puts the cursor and viewport back
// where they were; Enter leaves them on the match.
func (e *Editor) Find() error {
	cx, cy := e.cx, e.cy
	rowOff, colOff := e.rowOff, e.colOff
	e.search = newSearch()

	query, err := e.Prompt(findPrompt, PromptFunc(e.onSearchKey))
	if err != nil {
		return err
	}
	if query == "" {
		e.cx, e.cy = cx, cy
		e.rowOff, e.colOff = rowOff, colOff
		return nil
	}
	if !e.search.matched {
		if s := e.suggest(query); s != "" {
			e.SetStatus("No match for %q (did you mean %q?)", query, s)
		} else {
			e.SetStatus("No match for %q", query)
		}
	}
	return nil
}

// onSearchKey moves to the next match of query after each prompt keystroke.
// Only the first match in a row is found.
func (e *Editor) onSearchKey(query string, key terminal.Key) {
	s := &e.search
	if s.savedHL != nil {
		if s.savedRow < e.doc.NumRows() {
			e.doc.Rows[s.savedRow].HL = s.savedHL
		}
		s.savedHL = nil
	}

	switch key.Type {
	case terminal.KeyEnter, terminal.KeyEscape:
		s.lastMatch = -1
		s.forward = true
		return
	case terminal.KeyRight, terminal.KeyDown:
		s.forward = true
	case terminal.KeyLeft, terminal.KeyUp:
		s.forward = false
	default:
		s.lastMatch = -1
		s.forward = true
	}
	if s.lastMatch == -1 {
		s.forward = true
	}
	if query == "" {
		return
	}

	s.matched = false
	needle := []byte(query)
	n := e.doc.NumRows()
	current := s.lastMatch
	for i, count := 0, n; i < count; i++ {
		if s.forward {
			current++
		} else {
			current--
		}
		switch {
		case current < 0:
			current = n - 1
		case current >= n:
			current = 0
		}

		row := e.doc.Rows[current]
		idx := bytes.Index(row.Render, needle)
		if idx < 0 {
			continue
		}
		s.lastMatch = current
		s.matched = true
		e.cy = current
		e.cx = row.RxToCx(idx, e.doc.TabStop)
		e.centerOn(current)

		s.savedRow = current
		s.savedHL = append([]syntax.Class(nil), row.HL...)
		for j := idx; j < idx+len(needle); j++ {
			row.HL[j] = syntax.Match
		}
		return
	}
}

// centerOn scrolls so that row sits in the middle of the screen.
func (e *Editor) centerOn(row int) {
	off := row - e.screenRows/2
	off = min(off, e.doc.NumRows()-e.screenRows)
	e.rowOff = max(off, 0)
}
