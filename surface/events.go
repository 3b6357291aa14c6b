package surface

// KeyCode identifies a key delivered to the surface.
type KeyCode int

const (
	// KeyRune is a printable character; Key.Rune holds it.
	KeyRune KeyCode = iota
	// KeyEnter inserts a hard line break.
	KeyEnter
	// KeyBackspace deletes backward.
	KeyBackspace
	// KeyDelete deletes forward.
	KeyDelete
	// KeyLeft moves the caret one position back.
	KeyLeft
	// KeyRight moves the caret one position forward.
	KeyRight
	// KeyHome moves the caret to the start of the document.
	KeyHome
	// KeyEnd moves the caret to the end of the document.
	KeyEnd
	// KeyEscape aborts chip editing.
	KeyEscape
)

func (k KeyCode) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyDelete:
		return "delete"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyEscape:
		return "escape"
	}
	return "unknown"
}

// Key is a keyboard event.
type Key struct {
	Code KeyCode
	Rune rune
}

// Char returns a KeyRune event for r.
func Char(r rune) Key { return Key{Code: KeyRune, Rune: r} }

// isDelete reports whether k deletes, and in which direction.
func (k Key) isDelete() (Direction, bool) {
	switch k.Code {
	case KeyBackspace:
		return Backward, true
	case KeyDelete:
		return Forward, true
	}
	return 0, false
}
