package tmpl

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every compile error.
var ErrSyntax = errors.New("tmpl: syntax error")

// SyntaxError reports malformed template source. Offset is the byte offset
// of the offending tag in the source.
type SyntaxError struct {
	Template string
	Offset   int
	Msg      string
}

func (e *SyntaxError) Error() string {
	name := e.Template
	if name == "" {
		name = "template"
	}
	return fmt.Sprintf("tmpl: %s: offset %d: %s", name, e.Offset, e.Msg)
}

// Is reports ErrSyntax as a match.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
