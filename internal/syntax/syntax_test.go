package syntax

import (
	"reflect"
	"testing"
)

var testProfile = &Profile{
	FileType:          "c",
	FileMatch:         []string{".c", ".h", "Makefile"},
	Keywords:          []string{"if", "return", "int|"},
	SingleLineComment: "//",
	MultiLineStart:    "/*",
	MultiLineEnd:      "*/",
	Flags:             HighlightNumbers | HighlightStrings,
}

// classes builds a highlight slice from a compact string, one letter per byte.
func classes(s string) []Class {
	m := map[byte]Class{
		'.': Normal, 'c': Comment, 'm': MLComment, 'k': Keyword1,
		'K': Keyword2, 's': String, 'n': Number,
	}
	out := make([]Class, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = m[s[i]]
	}
	return out
}

func TestHighlightRow(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		inComment bool
		want      string
		wantOpen  bool
	}{
		{"plain", "foo bar", false, ".......", false},
		{"keyword", "if x", false, "kk..", false},
		{"secondary keyword", "int x;", false, "KKK...", false},
		{"keyword needs separator after", "iffy", false, "....", false},
		{"keyword needs separator before", "xif y", false, ".....", false},
		{"keyword at end of row", "return", false, "kkkkkk", false},
		{"number", "x = 42;", false, "....nn.", false},
		{"decimal", "3.14", false, "nnnn", false},
		{"digit inside word", "x1", false, "..", false},
		{"string", `a "b" c`, false, "..sss..", false},
		{"single quoted", `'x'`, false, "sss", false},
		{"escaped quote", `"a\"b"`, false, "ssssss", false},
		{"line comment", "x // if 1", false, "..ccccccc", false},
		{"comment marker inside string", `"//" x`, false, "ssss..", false},
		{"block comment closed", "/* a */ if", false, "mmmmmmm.kk", false},
		{"block comment left open", "x /* a", false, "..mmmm", true},
		{"inherited open comment", "a */ 1", true, "mmmm.n", false},
		{"inherited comment stays open", "still going", true, "mmmmmmmmmmm", true},
		{"line comment ignored inside block", "// */ if", true, "mmmmm.kk", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hl, open := HighlightRow([]byte(tc.line), tc.inComment, testProfile)
			if len(hl) != len(tc.line) {
				t.Fatalf("len(hl) = %d, want %d", len(hl), len(tc.line))
			}
			if want := classes(tc.want); !reflect.DeepEqual(hl, want) {
				t.Errorf("hl = %v, want %v", hl, want)
			}
			if open != tc.wantOpen {
				t.Errorf("open = %v, want %v", open, tc.wantOpen)
			}
		})
	}
}

func TestHighlightRowNilProfile(t *testing.T) {
	hl, open := HighlightRow([]byte("if /* x"), true, nil)
	if open {
		t.Error("nil profile should never leave a comment open")
	}
	for i, c := range hl {
		if c != Normal {
			t.Errorf("hl[%d] = %v, want Normal", i, c)
		}
	}
}

func TestHighlightRowDeterministic(t *testing.T) {
	line := []byte(`int main() { return "x" /* 1.5 */ 2; } // end`)
	for _, inComment := range []bool{false, true} {
		first, firstOpen := HighlightRow(line, inComment, testProfile)
		for i := 0; i < 5; i++ {
			hl, open := HighlightRow(line, inComment, testProfile)
			if !reflect.DeepEqual(hl, first) || open != firstOpen {
				t.Fatalf("run %d differs from first run (inComment=%v)", i, inComment)
			}
		}
	}
}

func TestIsSeparator(t *testing.T) {
	for _, c := range []byte(" \t\x00,.()+-/*=~%<>[]{};") {
		if !IsSeparator(c) {
			t.Errorf("%q should be a separator", c)
		}
	}
	for _, c := range []byte("aZ09_\"'|") {
		if IsSeparator(c) {
			t.Errorf("%q should not be a separator", c)
		}
	}
}

func TestSelect(t *testing.T) {
	other := &Profile{FileType: "other", FileMatch: []string{".c"}}
	db := []*Profile{testProfile, other}

	tests := []struct {
		filename string
		want     *Profile
	}{
		{"main.c", testProfile},
		{"dir/lib.h", testProfile},
		{"Makefile", testProfile},
		{"build/Makefile.am", testProfile},
		{"main.go", nil},
		{"README", nil},
		{"", nil},
	}
	for _, tc := range tests {
		if got := Select(tc.filename, db); got != tc.want {
			t.Errorf("Select(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestSelectBuiltin(t *testing.T) {
	if p := Select("editor.cpp", Builtin); p == nil || p.FileType != "c" {
		t.Errorf("editor.cpp should select c, got %v", p)
	}
	if p := Select("main.go", Builtin); p == nil || p.FileType != "go" {
		t.Errorf("main.go should select go, got %v", p)
	}
}

func TestLabel(t *testing.T) {
	if got := Label("x.c", testProfile); got != "c" {
		t.Errorf("Label with profile = %q", got)
	}
	if got := Label("", nil); got != NoFileType {
		t.Errorf("Label untitled = %q", got)
	}
	if got := Label("notes.zzqq-unknown", nil); got != NoFileType {
		t.Errorf("Label unknown = %q", got)
	}
	if got := Label("script.py", nil); got == NoFileType || got == "" {
		t.Errorf("Label for a chroma-known file = %q", got)
	}
}

func TestClassColor(t *testing.T) {
	tests := map[Class]int{
		Normal: 37, Comment: 36, MLComment: 36, Keyword1: 33,
		Keyword2: 32, String: 35, Number: 31, Match: 34,
	}
	for c, want := range tests {
		if got := c.Color(); got != want {
			t.Errorf("Class(%d).Color() = %d, want %d", c, got, want)
		}
	}
}
