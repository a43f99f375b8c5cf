package editor

import "github.com/JackWReid/kite/internal/terminal"

// PromptHandler is told about every keystroke of a running prompt, after the
// input has been updated for it.
type PromptHandler interface {
	OnKey(input string, key terminal.Key)
}

// PromptFunc adapts a function to a PromptHandler.
type PromptFunc func(input string, key terminal.Key)

// OnKey calls f(input, key).
func (f PromptFunc) OnKey(input string, key terminal.Key) { f(input, key) }

// Prompt shows msg followed by the input on the message bar and collects a
// line of input. It returns "" when the user cancels with Escape. h may be
// nil.
func (e *Editor) Prompt(msg string, h PromptHandler) (string, error) {
	if h == nil {
		h = PromptFunc(func(string, terminal.Key) {})
	}

	var input []byte
	for {
		e.SetStatus("%s%s", msg, input)
		if err := e.RefreshScreen(); err != nil {
			return "", err
		}

		key, err := e.readKey()
		if err != nil {
			return "", err
		}

		switch key.Type {
		case terminal.KeyNone:
			continue
		case terminal.KeyBackspace, terminal.KeyDelete:
			if len(input) > 0 {
				input = input[:len(input)-1]
			}
		case terminal.KeyEscape:
			e.SetStatus("")
			h.OnKey(string(input), key)
			return "", nil
		case terminal.KeyEnter:
			if len(input) > 0 {
				e.SetStatus("")
				h.OnKey(string(input), key)
				return string(input), nil
			}
		case terminal.KeyByte:
			if key.Byte >= 32 && key.Byte < 127 {
				input = append(input, key.Byte)
			}
		}
		h.OnKey(string(input), key)
	}
}
