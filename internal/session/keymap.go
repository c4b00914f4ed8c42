package session

// KeyAction is what a key press maps to.
type KeyAction int

const (
	KeyNone KeyAction = iota
	KeyAppend
	KeySubmit
	KeyBackspace
	KeyClear
)

// shortcuts insert function calls with a single letter.
var shortcuts = map[string]string{
	"s": "sin(",
	"c": "cos(",
	"l": "log(",
	"q": "sqrt(",
}

// ResolveKey maps a key name, as reported by the terminal ("enter",
// "backspace", "esc", "7", "+"), to an action and the text to append.
func ResolveKey(key string) (KeyAction, string) {
	switch key {
	case "enter":
		return KeySubmit, ""
	case "backspace":
		return KeyBackspace, ""
	case "esc", "escape":
		return KeyClear, ""
	case "+", "-", "*", "/", ".", "(", ")", "^":
		return KeyAppend, key
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return KeyAppend, key
	}
	if tok, ok := shortcuts[key]; ok {
		return KeyAppend, tok
	}
	return KeyNone, ""
}

// HandleKey applies a key press. handled is false for keys the workspace
// does not use. For Enter, out and err are the result of Submit.
func (s *State) HandleKey(key string) (handled bool, out *Outcome, err error) {
	action, tok := ResolveKey(key)
	switch action {
	case KeyAppend:
		s.AppendToken(tok)
	case KeySubmit:
		out, err = s.Submit()
	case KeyBackspace:
		s.Backspace()
	case KeyClear:
		s.Clear()
	case KeyNone:
		return false, nil, nil
	}
	return true, out, err
}
