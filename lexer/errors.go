package lexer

import "fmt"

// Error represents an error while lexing.
type Error struct {
	Msg   string
	Pos   Position
	Hints []string
}

// Errorf creates a new Error at the given position.
func Errorf(pos Position, format string, args ...interface{}) *Error {
	return &Error{
		Msg: fmt.Sprintf(format, args...),
		Pos: pos,
	}
}

// Hint attaches a suggestion to the error.
func (e *Error) Hint(hint string) *Error {
	e.Hints = append(e.Hints, hint)
	return e
}

// Message returns the unadorned error message.
func (e *Error) Message() string { return e.Msg }

// Position returns where the error occurred.
func (e *Error) Position() Position { return e.Pos }

func (e *Error) Error() string {
	return FormatError(e.Pos, e.Msg)
}

// FormatError formats an error in the form "[<filename>:][<line>:<col>:] <message>"
func FormatError(pos Position, message string) string {
	msg := ""
	if pos.Filename != "" {
		msg += pos.Filename + ":"
	}
	if pos.Line != 0 || pos.Column != 0 {
		msg += fmt.Sprintf("%d:%d:", pos.Line, pos.Column)
	}
	if msg != "" {
		msg += " " + message
	} else {
		msg = message
	}
	return msg
}

func asError(pos Position, err error) *Error {
	if lerr, ok := err.(*Error); ok {
		return lerr
	}
	return &Error{Msg: err.Error(), Pos: pos}
}
