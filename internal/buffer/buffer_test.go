package buffer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JackWReid/kite/internal/syntax"
)

var cProfile = &syntax.Profile{
	FileType:          "c",
	FileMatch:         []string{".c"},
	Keywords:          []string{"if", "int|"},
	SingleLineComment: "//",
	MultiLineStart:    "/*",
	MultiLineEnd:      "*/",
	Flags:             syntax.HighlightNumbers | syntax.HighlightStrings,
}

// newDoc builds a document from lines without going through Load.
func newDoc(lines ...string) *Document {
	d := NewDocument(4)
	for _, l := range lines {
		d.InsertRow(d.NumRows(), []byte(l))
	}
	d.Dirty = 0
	return d
}

func rowStrings(d *Document) []string {
	out := make([]string, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = string(r.Chars)
	}
	return out
}

// checkInvariants verifies indices and the render/highlight lengths of every row.
func checkInvariants(t *testing.T, d *Document) {
	t.Helper()
	for i, r := range d.Rows {
		if r.Index != i {
			t.Errorf("row %d has Index %d", i, r.Index)
		}
		if len(r.HL) != len(r.Render) {
			t.Errorf("row %d: len(HL)=%d len(Render)=%d", i, len(r.HL), len(r.Render))
		}
	}
}

func TestNewDocument(t *testing.T) {
	d := NewDocument(0)
	if d.TabStop != DefaultTabStop {
		t.Errorf("TabStop = %d, want %d", d.TabStop, DefaultTabStop)
	}
	if d.NumRows() != 0 || d.Dirty != 0 {
		t.Errorf("new document should be empty and clean, got %d rows dirty=%d", d.NumRows(), d.Dirty)
	}
}

func TestRenderExpandsTabs(t *testing.T) {
	d := newDoc("foo", "", "\tbar", "a\tb", "abcd\te")
	want := []string{"foo", "", "    bar", "a   b", "abcd    e"}
	for i, r := range d.Rows {
		if string(r.Render) != want[i] {
			t.Errorf("row %d render = %q, want %q", i, r.Render, want[i])
		}
	}
	checkInvariants(t, d)
}

func TestRenderLengthBounds(t *testing.T) {
	for _, line := range []string{"", "x", "\t", "\t\t", "a\tbc\td", "abc\t", "    \t"} {
		d := newDoc(line)
		r := d.Rows[0]
		tabs := strings.Count(line, "\t")
		if len(r.Render) < len(r.Chars) {
			t.Errorf("%q: render shorter than raw", line)
		}
		if len(r.Render) > len(r.Chars)+tabs*(d.TabStop-1) {
			t.Errorf("%q: render length %d exceeds bound", line, len(r.Render))
		}
	}
}

func TestColumnMapping(t *testing.T) {
	d := newDoc("a\tbc\td")
	r := d.Rows[0] // render: "a   bc  d"

	cxToRx := []int{0, 1, 4, 5, 6, 8}
	for cx, want := range cxToRx {
		if got := r.CxToRx(cx, d.TabStop); got != want {
			t.Errorf("CxToRx(%d) = %d, want %d", cx, got, want)
		}
	}

	// Round trip for every column that does not land inside a tab expansion.
	for cx := 0; cx <= r.Size(); cx++ {
		rx := r.CxToRx(cx, d.TabStop)
		if got := r.RxToCx(rx, d.TabStop); got != cx {
			t.Errorf("RxToCx(CxToRx(%d)) = %d", cx, got)
		}
	}

	// Render columns inside a tab map to the tab itself.
	if got := r.RxToCx(2, d.TabStop); got != 1 {
		t.Errorf("RxToCx(2) = %d, want 1", got)
	}
	if got := r.RxToCx(100, d.TabStop); got != r.Size() {
		t.Errorf("RxToCx past end = %d, want %d", got, r.Size())
	}
}

func TestInsertAndDeleteRow(t *testing.T) {
	d := newDoc("a", "b", "c")
	d.InsertRow(1, []byte("x"))
	if got := rowStrings(d); strings.Join(got, ",") != "a,x,b,c" {
		t.Errorf("after insert: %v", got)
	}
	d.DeleteRow(0)
	if got := rowStrings(d); strings.Join(got, ",") != "x,b,c" {
		t.Errorf("after delete: %v", got)
	}
	if d.Dirty != 2 {
		t.Errorf("Dirty = %d, want 2", d.Dirty)
	}
	checkInvariants(t, d)

	// Out of range is ignored.
	d.InsertRow(10, []byte("z"))
	d.DeleteRow(-1)
	d.DeleteRow(3)
	if d.NumRows() != 3 || d.Dirty != 2 {
		t.Errorf("out-of-range ops changed the document: %v dirty=%d", rowStrings(d), d.Dirty)
	}
}

func TestInsertRowCopiesInput(t *testing.T) {
	d := NewDocument(4)
	src := []byte("abc")
	d.InsertRow(0, src)
	src[0] = 'X'
	if string(d.Rows[0].Chars) != "abc" {
		t.Errorf("row aliases caller slice: %q", d.Rows[0].Chars)
	}
}

func TestInsertChar(t *testing.T) {
	d := newDoc("hello")
	d.InsertChar(0, 0, 'H')
	d.InsertChar(0, 100, '!')
	d.InsertChar(0, -5, '>')
	if got := string(d.Rows[0].Chars); got != ">Hhello!" {
		t.Errorf("got %q", got)
	}
	if d.Dirty != 3 {
		t.Errorf("Dirty = %d, want 3", d.Dirty)
	}
	d.InsertChar(0, 1, '\t')
	if got := string(d.Rows[0].Render); got != ">   Hhello!" {
		t.Errorf("render after tab insert: %q", got)
	}
	checkInvariants(t, d)
}

func TestDeleteChar(t *testing.T) {
	d := newDoc("hello")
	d.DeleteChar(0, 0)
	d.DeleteChar(0, 3)
	if got := string(d.Rows[0].Chars); got != "ell" {
		t.Errorf("got %q", got)
	}
	d.DeleteChar(0, 3)
	d.DeleteChar(5, 0)
	if got := string(d.Rows[0].Chars); got != "ell" || d.Dirty != 2 {
		t.Errorf("out-of-range delete changed row: %q dirty=%d", got, d.Dirty)
	}
}

func TestJoinRows(t *testing.T) {
	d := newDoc("foo", "", "\tbar")
	d.JoinRows(1)
	if got := rowStrings(d); len(got) != 2 || got[1] != "\tbar" {
		t.Errorf("join: %q", got)
	}
	if string(d.Rows[1].Render) != "    bar" {
		t.Errorf("joined render = %q", d.Rows[1].Render)
	}
	checkInvariants(t, d)

	d.JoinRows(1) // no row below
	if d.NumRows() != 2 {
		t.Errorf("join past end changed row count: %d", d.NumRows())
	}
}

func TestSplitRow(t *testing.T) {
	d := newDoc("hello world")
	d.SplitRow(0, 5)
	if got := rowStrings(d); strings.Join(got, "|") != "hello| world" {
		t.Errorf("split: %q", got)
	}
	d.SplitRow(1, 99)
	if got := rowStrings(d); strings.Join(got, "|") != "hello| world|" {
		t.Errorf("split at end: %q", got)
	}
	checkInvariants(t, d)
}

func TestBlockCommentPropagation(t *testing.T) {
	d := newDoc("int a;", "if b", "int c;", "x */ if")
	d.SetSyntax(cProfile)
	if d.Rows[2].HL[0] != syntax.Keyword2 {
		t.Fatalf("row 2 should start with a keyword before any comment")
	}

	// Opening a block comment on row 0 recolours every row down to the close.
	d.InsertChar(0, 0, '*')
	d.InsertChar(0, 0, '/')
	for i := 0; i < 3; i++ {
		if !d.Rows[i].OpenComment {
			t.Errorf("row %d should end inside the comment", i)
		}
	}
	if d.Rows[2].HL[0] != syntax.MLComment {
		t.Errorf("row 2 should be comment, got %v", d.Rows[2].HL)
	}
	if d.Rows[3].OpenComment {
		t.Error("row 3 closes the comment")
	}
	if got := d.Rows[3].HL[len(d.Rows[3].HL)-1]; got != syntax.Keyword1 {
		t.Errorf("text after the close should be highlighted again, got %v", got)
	}

	// Removing the opener restores the original colouring.
	d.DeleteChar(0, 0)
	for i := 0; i < 3; i++ {
		if d.Rows[i].OpenComment {
			t.Errorf("row %d should no longer be in a comment", i)
		}
	}
	if d.Rows[2].HL[0] != syntax.Keyword2 {
		t.Errorf("row 2 should be a keyword again, got %v", d.Rows[2].HL)
	}
	checkInvariants(t, d)
}

func TestPropagationOnRowInsertAndDelete(t *testing.T) {
	d := newDoc("if a", "if b")
	d.SetSyntax(cProfile)

	d.InsertRow(1, []byte("/* open"))
	if d.Rows[2].HL[0] != syntax.MLComment {
		t.Errorf("row below an inserted opener should be comment, got %v", d.Rows[2].HL)
	}

	d.DeleteRow(1)
	if d.Rows[1].HL[0] != syntax.Keyword1 {
		t.Errorf("row should be a keyword again once the opener is deleted, got %v", d.Rows[1].HL)
	}
	checkInvariants(t, d)
}

func TestLongOpenCommentIsIterative(t *testing.T) {
	d := NewDocument(4)
	d.SetSyntax(cProfile)
	for i := 0; i < 50000; i++ {
		d.InsertRow(d.NumRows(), []byte("x"))
	}
	d.InsertChar(0, 0, '*')
	d.InsertChar(0, 0, '/')
	if !d.Rows[d.NumRows()-1].OpenComment {
		t.Error("comment state should reach the last row")
	}
}

func TestLoad(t *testing.T) {
	d := NewDocument(4)
	err := d.Load(strings.NewReader("one\r\ntwo\n\nthree"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(rowStrings(d), "|"); got != "one|two||three" {
		t.Errorf("rows = %q", got)
	}
	if d.Dirty != 0 {
		t.Errorf("Dirty after load = %d", d.Dirty)
	}
	checkInvariants(t, d)
}

func TestLoadLongLine(t *testing.T) {
	long := strings.Repeat("x", 200000)
	d := NewDocument(4)
	if err := d.Load(strings.NewReader(long + "\n")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.NumRows() != 1 || d.Rows[0].Size() != len(long) {
		t.Errorf("long line not loaded intact")
	}
}

func TestBytes(t *testing.T) {
	d := newDoc("a", "", "\tb")
	if got := string(d.Bytes()); got != "a\n\n\tb\n" {
		t.Errorf("Bytes = %q", got)
	}
	if got := NewDocument(4).Bytes(); len(got) != 0 {
		t.Errorf("empty document serialises to %q", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "round.txt")

	// Source file has no terminator after the final row.
	src := "first\n\n\tindented\n  \tmixed\nlast"
	d := NewDocument(4)
	if err := d.Load(strings.NewReader(src)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := os.WriteFile(path, d.Bytes(), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	back := NewDocument(4)
	if err := back.Load(bytes.NewReader(data)); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.NumRows() != d.NumRows() {
		t.Fatalf("row count %d, want %d", back.NumRows(), d.NumRows())
	}
	for i := range d.Rows {
		if !bytes.Equal(back.Rows[i].Chars, d.Rows[i].Chars) {
			t.Errorf("row %d = %q, want %q", i, back.Rows[i].Chars, d.Rows[i].Chars)
		}
	}
}
