// Package syntax classifies the rendered bytes of a row for colouring.
package syntax

import "bytes"

// Class is the highlight classification of one rendered byte.
type Class uint8

const (
	Normal Class = iota
	Comment
	MLComment
	Keyword1
	Keyword2
	String
	Number
	Match
)

// Color returns the SGR foreground colour code for the class.
func (c Class) Color() int {
	switch c {
	case Comment, MLComment:
		return 36
	case Keyword1:
		return 33
	case Keyword2:
		return 32
	case String:
		return 35
	case Number:
		return 31
	case Match:
		return 34
	default:
		return 37
	}
}

// Flags toggle the optional highlighting rules of a profile.
type Flags uint8

const (
	HighlightNumbers Flags = 1 << iota
	HighlightStrings
)

// SecondaryMarker marks a keyword as secondary when it ends the keyword.
const SecondaryMarker = '|'

// Profile describes how to highlight one filetype.
type Profile struct {
	FileType          string
	FileMatch         []string // ".ext" matches the extension, anything else a substring
	Keywords          []string // a trailing SecondaryMarker makes the keyword Keyword2
	SingleLineComment string
	MultiLineStart    string
	MultiLineEnd      string
	Flags             Flags
}

const separators = ",.()+-/*=~%<>[]{};"

// IsSeparator reports whether c ends a word for keyword and number matching.
func IsSeparator(c byte) bool {
	switch c {
	case 0, ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return bytes.IndexByte([]byte(separators), c) >= 0
}

// HighlightRow classifies every byte of render. inComment is the open-comment
// state inherited from the previous row. The second result reports whether a
// block comment is still open at the end of the row.
func HighlightRow(render []byte, inComment bool, p *Profile) ([]Class, bool) {
	hl := make([]Class, len(render))
	if p == nil {
		return hl, false
	}

	scs := []byte(p.SingleLineComment)
	mcs := []byte(p.MultiLineStart)
	mce := []byte(p.MultiLineEnd)

	prevSep := true
	var inString byte

	i := 0
	for i < len(render) {
		c := render[i]
		prevHL := Normal
		if i > 0 {
			prevHL = hl[i-1]
		}

		if len(scs) > 0 && inString == 0 && !inComment {
			if bytes.HasPrefix(render[i:], scs) {
				for j := i; j < len(render); j++ {
					hl[j] = Comment
				}
				break
			}
		}

		if len(mcs) > 0 && len(mce) > 0 && inString == 0 {
			if inComment {
				hl[i] = MLComment
				if bytes.HasPrefix(render[i:], mce) {
					for j := i; j < i+len(mce); j++ {
						hl[j] = MLComment
					}
					i += len(mce)
					inComment = false
					prevSep = true
					continue
				}
				i++
				continue
			} else if bytes.HasPrefix(render[i:], mcs) {
				for j := i; j < i+len(mcs); j++ {
					hl[j] = MLComment
				}
				i += len(mcs)
				inComment = true
				continue
			}
		}

		if p.Flags&HighlightStrings != 0 {
			if inString != 0 {
				hl[i] = String
				if c == '\\' && i+1 < len(render) {
					hl[i+1] = String
					i += 2
					continue
				}
				if c == inString {
					inString = 0
				}
				i++
				prevSep = true
				continue
			} else if c == '"' || c == '\'' {
				inString = c
				hl[i] = String
				i++
				continue
			}
		}

		if p.Flags&HighlightNumbers != 0 {
			if (isDigit(c) && (prevSep || prevHL == Number)) || (c == '.' && prevHL == Number) {
				hl[i] = Number
				i++
				prevSep = false
				continue
			}
		}

		if prevSep {
			if n, class := matchKeyword(render[i:], p.Keywords); n > 0 {
				for j := i; j < i+n; j++ {
					hl[j] = class
				}
				i += n
				prevSep = false
				continue
			}
		}

		prevSep = IsSeparator(c)
		i++
	}

	return hl, inComment
}

// matchKeyword returns the length and class of the first keyword that starts
// s and is followed by a separator, or 0 if none does.
func matchKeyword(s []byte, keywords []string) (int, Class) {
	for _, kw := range keywords {
		class := Keyword1
		if n := len(kw); n > 0 && kw[n-1] == SecondaryMarker {
			kw = kw[:n-1]
			class = Keyword2
		}
		if kw == "" || !bytes.HasPrefix(s, []byte(kw)) {
			continue
		}
		var next byte
		if len(kw) < len(s) {
			next = s[len(kw)]
		}
		if IsSeparator(next) {
			return len(kw), class
		}
	}
	return 0, Normal
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
