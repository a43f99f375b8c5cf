package editor

import (
	"bytes"
	"strings"

	"github.com/sajari/fuzzy"

	"github.com/JackWReid/kite/internal/buffer"
)

// minSuggestLen is the shortest document word offered as a suggestion.
const minSuggestLen = 3

// suggest returns a word from the document close to query, or "" if there is
// none. The model is trained on demand since the document changes between
// searches.
func (e *Editor) suggest(query string) string {
	words := documentWords(e.doc)
	if len(words) == 0 {
		return ""
	}

	model := fuzzy.NewModel()
	model.SetDepth(2)
	model.SetThreshold(1)
	for _, w := range words {
		model.TrainWord(w)
	}

	q := strings.ToLower(query)
	s := model.SpellCheck(q)
	if s == q {
		return ""
	}
	return s
}

// documentWords splits every row into lower-cased identifier-like words.
func documentWords(doc *buffer.Document) []string {
	var words []string
	for _, row := range doc.Rows {
		for _, f := range bytes.FieldsFunc(row.Chars, isWordBreak) {
			if len(f) >= minSuggestLen {
				words = append(words, strings.ToLower(string(f)))
			}
		}
	}
	return words
}

func isWordBreak(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return false
	}
	return true
}
