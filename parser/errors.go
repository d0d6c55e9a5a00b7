// Package parser implements the rule fragment grammars.
package parser

import "errors"

// Structural errors.
var (
	ErrUnbalancedDelimiters       = errors.New("unbalanced delimiters")
	ErrUnexpectedEndOfInput       = errors.New("unexpected end of input")
	ErrUnexpectedToken            = errors.New("unexpected token")
	ErrUnexpectedOperator         = errors.New("unexpected operator")
	ErrUnexpectedCharacter        = errors.New("unexpected character")
	ErrExpectedClosingParenthesis = errors.New("expected closing parenthesis")
)

// Selector ordering errors.
var (
	ErrDuplicateTypeSelector   = errors.New("duplicate type selector")
	ErrTypeSelectorMustBeFirst = errors.New("type selector must be first")
)

// Vendor modifier errors.
var (
	ErrDuplicateModifier                 = errors.New("duplicate modifier")
	ErrModifierCannotBeNested            = errors.New("modifier cannot be nested")
	ErrPseudoCannotBeNestedInOther       = errors.New("pseudo cannot be nested in other pseudo")
	ErrExpectedColonButGotBefore         = errors.New("expected colon before pseudo")
	ErrNegatedModifierCannotBeFollowedBy = errors.New("negated modifier cannot be followed by anything")
	ErrStyleCannotBeFollowedByAnything   = errors.New("style modifier cannot be followed by anything")
)

// List shape errors.
var (
	ErrEmptyListItem                = errors.New("empty list item")
	ErrLeadingSeparator             = errors.New("leading separator")
	ErrTrailingSeparator            = errors.New("trailing separator")
	ErrDoubleNegation               = errors.New("double negation")
	ErrNegationFollowedBySeparator  = errors.New("negation followed by separator")
	ErrNegationFollowedByWhitespace = errors.New("negation followed by whitespace")
	ErrExpectedQuote                = errors.New("expected quote")
	ErrExpectedClosingQuote         = errors.New("expected closing quote")
	ErrExpectedSeparator            = errors.New("expected separator")
	ErrEmptyModifierName            = errors.New("empty modifier name")
	ErrEmptyModifierValue           = errors.New("empty modifier value")
)

// Error represents a syntax error.
// Start and End are absolute offsets of the offending range.
type Error struct {
	Err     error
	Message string
	Start   int
	End     int
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the error class, usable with errors.Is.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError returns a syntax error for the relative range [start, end)
// shifted by offset.
func newError(err error, msg string, offset, start, end int) *Error {
	return &Error{Err: err, Message: msg, Start: offset + start, End: offset + end}
}
