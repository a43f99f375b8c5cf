package terminal

// KeyType identifies a decoded logical key.
type KeyType int

// Key types.
const (
	KeyNone      KeyType = iota // No input arrived before the read timeout
	KeyByte                     // Printable or control byte, in Key.Byte
	KeyEnter                    // Enter/Return
	KeyEscape                   // Escape, or an unrecognised sequence
	KeyBackspace                // Backspace/Ctrl-H
	KeyDelete                   // Delete/Forward-delete
	KeyUp                       // Arrow up
	KeyDown                     // Arrow down
	KeyLeft                     // Arrow left
	KeyRight                    // Arrow right
	KeyHome                     // Home
	KeyEnd                      // End
	KeyPgUp                     // Page Up
	KeyPgDn                     // Page Down
)

// Key is one logical keystroke.
type Key struct {
	Type KeyType
	Byte byte
}

const (
	escape    = 0x1b
	enter     = '\r'
	backspace = 127
)

// Ctrl returns the control byte produced by holding Ctrl with c.
func Ctrl(c byte) byte { return c & 0x1f }

// IsCtrl reports whether k is Ctrl held with c.
func (k Key) IsCtrl(c byte) bool {
	return k.Type == KeyByte && k.Byte == Ctrl(c)
}

// byteSource yields the next input byte. ok is false when the read timed out.
type byteSource func() (b byte, ok bool, err error)

// decodeKey turns the first byte of a keystroke into a Key, pulling the rest
// of an escape sequence from next.
func decodeKey(c byte, next byteSource) (Key, error) {
	switch c {
	case escape:
		return decodeEscape(next)
	case enter:
		return Key{Type: KeyEnter}, nil
	case backspace, Ctrl('h'):
		return Key{Type: KeyBackspace}, nil
	}
	return Key{Type: KeyByte, Byte: c}, nil
}

type escapeState int

const (
	stateEscape escapeState = iota // ESC
	stateCSI                       // ESC [
	stateSS3                       // ESC O
	stateParam                     // ESC [ digit
)

var (
	// ESC [ <letter>
	csiKeys = map[byte]KeyType{
		'A': KeyUp,
		'B': KeyDown,
		'C': KeyRight,
		'D': KeyLeft,
		'H': KeyHome,
		'F': KeyEnd,
	}
	// ESC O <letter>
	ss3Keys = map[byte]KeyType{
		'H': KeyHome,
		'F': KeyEnd,
	}
	// ESC [ <digit> ~
	tildeKeys = map[byte]KeyType{
		'1': KeyHome,
		'3': KeyDelete,
		'4': KeyEnd,
		'5': KeyPgUp,
		'6': KeyPgDn,
		'7': KeyHome,
		'8': KeyEnd,
	}
)

// decodeEscape runs the sequence state machine after an ESC byte. Anything
// truncated or unknown decodes as a bare Escape. At most three further bytes
// are read.
func decodeEscape(next byteSource) (Key, error) {
	bare := Key{Type: KeyEscape}
	state := stateEscape
	var param byte
	for {
		b, ok, err := next()
		if err != nil {
			return Key{}, err
		}
		if !ok {
			return bare, nil
		}
		switch state {
		case stateEscape:
			switch b {
			case '[':
				state = stateCSI
			case 'O':
				state = stateSS3
			default:
				return bare, nil
			}
		case stateCSI:
			if b >= '0' && b <= '9' {
				param = b
				state = stateParam
				continue
			}
			return lookupKey(csiKeys, b), nil
		case stateSS3:
			return lookupKey(ss3Keys, b), nil
		case stateParam:
			if b != '~' {
				return bare, nil
			}
			return lookupKey(tildeKeys, param), nil
		}
	}
}

func lookupKey(table map[byte]KeyType, b byte) Key {
	if t, ok := table[b]; ok {
		return Key{Type: t}
	}
	return Key{Type: KeyEscape}
}
