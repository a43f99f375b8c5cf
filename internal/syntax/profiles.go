package syntax

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// NoFileType is the status bar label for buffers without a known filetype.
const NoFileType = "no ft"

// Builtin is the default highlight database, tried after any configured profiles.
var Builtin = []*Profile{
	{
		FileType:  "c",
		FileMatch: []string{".c", ".h", ".cpp"},
		Keywords: []string{
			"switch", "if", "while", "for", "break", "continue", "return", "else",
			"struct", "union", "typedef", "static", "enum", "class", "case",
			"int|", "long|", "double|", "float|", "char|", "unsigned|", "signed|", "void|",
		},
		SingleLineComment: "//",
		MultiLineStart:    "/*",
		MultiLineEnd:      "*/",
		Flags:             HighlightNumbers | HighlightStrings,
	},
	{
		FileType:  "go",
		FileMatch: []string{".go"},
		Keywords: []string{
			"break", "case", "chan", "const", "continue", "default", "defer", "else",
			"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
			"map", "package", "range", "return", "select", "struct", "switch", "type", "var",
			"bool|", "byte|", "error|", "float32|", "float64|", "int|", "int8|", "int16|",
			"int32|", "int64|", "rune|", "string|", "uint|", "uint8|", "uint16|", "uint32|",
			"uint64|", "uintptr|", "nil|", "true|", "false|",
		},
		SingleLineComment: "//",
		MultiLineStart:    "/*",
		MultiLineEnd:      "*/",
		Flags:             HighlightNumbers | HighlightStrings,
	},
}

// Select returns the first profile with a pattern matching filename, or nil.
func Select(filename string, profiles []*Profile) *Profile {
	if filename == "" {
		return nil
	}
	ext := filepath.Ext(filename)
	for _, p := range profiles {
		for _, pattern := range p.FileMatch {
			if pattern == "" {
				continue
			}
			isExt := pattern[0] == '.'
			if (isExt && ext != "" && ext == pattern) || (!isExt && strings.Contains(filename, pattern)) {
				return p
			}
		}
	}
	return nil
}

// Label returns the filetype shown in the status bar. Files without a profile
// fall back to the name of the chroma lexer that recognises them.
func Label(filename string, p *Profile) string {
	if p != nil {
		return p.FileType
	}
	if filename == "" {
		return NoFileType
	}
	if lexer := lexers.Match(filepath.Base(filename)); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return NoFileType
}
