package interchange

import (
	"errors"
	"fmt"
)

// Shape checks reported by ShapeError.Check.
const (
	CheckRoot   = "root"
	CheckMeta   = "meta"
	CheckRules  = "rules"
	CheckRule   = "rule"
	CheckID     = "rule.id"
	CheckTitle  = "rule.title"
	CheckPoints = "rule.points"
	CheckType   = "type"
)

// ShapeError reports a document that is valid JSON but does not have the
// rule book shape. The current document must be left unchanged.
type ShapeError struct {
	// Check names the failed check (one of the Check* constants).
	Check string

	// Field is the JSON path of the offending value, when known.
	Field string

	// Index is the offending rule index for per-rule checks, or -1.
	Index int

	// Title is the offending rule's title for the points check.
	Title string

	msg string
}

func (e *ShapeError) Error() string { return e.msg }

func shapeErr(check, field string, index int, title, format string, args ...any) *ShapeError {
	return &ShapeError{
		Check: check,
		Field: field,
		Index: index,
		Title: title,
		msg:   fmt.Sprintf(format, args...),
	}
}

// ParseError reports text that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "failed to parse JSON: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Message returns the text shown to the user for an import failure. Shape
// errors name the failed check; parse errors are reported generically.
func Message(err error) string {
	var shape *ShapeError
	if errors.As(err, &shape) {
		return shape.Error()
	}
	var parse *ParseError
	if errors.As(err, &parse) {
		return "Failed to parse JSON"
	}
	return err.Error()
}
