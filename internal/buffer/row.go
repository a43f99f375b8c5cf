package buffer

import "github.com/JackWReid/kite/internal/syntax"

// Row is one line of the document.
type Row struct {
	Index       int
	Chars       []byte         // stored bytes, no line terminator
	Render      []byte         // Chars with tabs expanded
	HL          []syntax.Class // one class per Render byte
	OpenComment bool           // a block comment is still open at the end of the row
}

// Size returns the number of stored bytes.
func (r *Row) Size() int { return len(r.Chars) }

// CxToRx maps a raw column to its render column.
func (r *Row) CxToRx(cx, tabStop int) int {
	rx := 0
	for j := 0; j < cx && j < len(r.Chars); j++ {
		if r.Chars[j] == '\t' {
			rx += (tabStop - 1) - (rx % tabStop)
		}
		rx++
	}
	return rx
}

// RxToCx maps a render column back to the last raw column whose render column
// does not exceed rx. Columns past the end map to Size().
func (r *Row) RxToCx(rx, tabStop int) int {
	curRx := 0
	for cx, c := range r.Chars {
		if c == '\t' {
			curRx += (tabStop - 1) - (curRx % tabStop)
		}
		curRx++
		if curRx > rx {
			return cx
		}
	}
	return len(r.Chars)
}

// updateRender rebuilds Render from Chars.
func (r *Row) updateRender(tabStop int) {
	tabs := 0
	for _, c := range r.Chars {
		if c == '\t' {
			tabs++
		}
	}
	render := make([]byte, 0, len(r.Chars)+tabs*(tabStop-1))
	for _, c := range r.Chars {
		if c == '\t' {
			render = append(render, ' ')
			for len(render)%tabStop != 0 {
				render = append(render, ' ')
			}
			continue
		}
		render = append(render, c)
	}
	r.Render = render
}
