package parser

import (
	"fmt"
	"strings"

	"github.com/filterlists/agtree/ast"
	"github.com/filterlists/agtree/token"
)

// Vendor selector modifiers.
const (
	StyleModifier        = "style"
	RemoveModifier       = "remove"
	MatchesPathModifier  = "matches-path"
	MatchesMediaModifier = "matches-media"
)

// VendorModifiers lists the known vendor selector modifiers.
var VendorModifiers = []string{
	StyleModifier,
	RemoveModifier,
	MatchesPathModifier,
	MatchesMediaModifier,
}

// notPseudo is the only pseudo-class allowed to wrap a modifier.
const notPseudo = "not"

// vendorIndicators holds ":name(" for every known modifier.
var vendorIndicators = func() []string {
	a := make([]string, len(VendorModifiers))
	for i, name := range VendorModifiers {
		a[i] = ":" + name + "("
	}
	return a
}()

// HasVendorModifierIndicator reports whether raw may contain a vendor
// selector modifier. It is a cheap scan used before a full parse.
func HasVendorModifierIndicator(raw string) bool {
	for _, s := range vendorIndicators {
		if strings.Contains(raw, s) {
			return true
		}
	}
	return false
}

// isVendorModifier returns true if name is a known modifier.
func isVendorModifier(name string) bool {
	for _, m := range VendorModifiers {
		if m == name {
			return true
		}
	}
	return false
}

// modifierFrame is an in-progress modifier.
// Offsets are relative to the parsed text.
type modifierFrame struct {
	name string

	// start is the offset of the colon of the outermost wrapper and balance
	// the depth at that colon.
	start   int
	balance int

	nameStart int
	nameEnd   int

	// valueBalance is the depth opened by the modifier function.
	valueStart   int
	valueEnd     int
	valueBalance int
	valueClosed  bool

	exception bool
}

// ParseVendorSelector extracts the trailing vendor modifiers, such as
// ":style(...)" or ":matches-path(...)", from a selector. The selector text
// without the modifiers is returned trimmed.
func ParseVendorSelector(raw string, opts Options) (*ast.VendorSelector, error) {
	result := &ast.VendorSelector{
		Modifiers: &ast.ModifierList{Loc: opts.loc(0, len(raw))},
		Loc:       opts.loc(0, len(raw)),
	}

	if !HasVendorModifierIndicator(raw) {
		result.Selector = &ast.Value{Value: strings.TrimSpace(raw), Loc: opts.loc(0, len(raw))}
		return result, nil
	}

	s, err := NewFunctionTokenStream(raw, opts.BaseOffset)
	if err != nil {
		return nil, err
	}

	var (
		stack  []*modifierFrame
		seen   = make(map[string]bool)
		cuts   [][2]int
		locked bool // a style or remove modifier was closed
	)

	for ; !s.IsEOF(); s.Advance() {
		tok := s.Current()

		if locked && tok.Kind != token.Whitespace {
			return nil, newError(ErrStyleCannotBeFollowedByAnything, fmt.Sprintf("Style modifier cannot be followed by %q", s.Fragment()), opts.BaseOffset, tok.Start, tok.End)
		}

		var top *modifierFrame
		if len(stack) > 0 {
			top = stack[len(stack)-1]
		}
		if top != nil && top.valueClosed && tok.Kind != token.RParen && tok.Kind != token.Whitespace {
			return nil, newError(ErrNegatedModifierCannotBeFollowedBy, fmt.Sprintf("Negated %q modifier cannot be followed by %q", top.name, s.Fragment()), opts.BaseOffset, tok.Start, tok.End)
		}

		switch tok.Kind {
		case token.Colon:
			fn := s.Lookahead(1)
			if fn == nil || fn.Kind != token.Function {
				continue
			}
			name := raw[fn.Start : fn.End-1]
			if !isVendorModifier(name) {
				continue
			}

			if top != nil {
				return nil, newError(ErrModifierCannotBeNested, fmt.Sprintf("Modifier %q cannot be nested inside %q", name, top.name), opts.BaseOffset, tok.Start, fn.End)
			}
			if seen[name] {
				return nil, newError(ErrDuplicateModifier, fmt.Sprintf("Modifier %q cannot be used twice", name), opts.BaseOffset, tok.Start, fn.End)
			}

			frame := &modifierFrame{
				name:         name,
				start:        tok.Start,
				balance:      tok.Balance,
				nameStart:    fn.Start,
				nameEnd:      fn.End - 1,
				valueStart:   fn.End,
				valueBalance: fn.Balance,
			}
			if tok.Balance > 0 {
				if err := unwrapNegations(s, frame, opts); err != nil {
					return nil, err
				}
			}

			seen[name] = true
			stack = append(stack, frame)
			s.Advance()

		case token.RParen:
			if top == nil {
				continue
			}
			if !top.valueClosed && tok.Balance == top.valueBalance-1 {
				top.valueEnd = tok.Start
				top.valueClosed = true
			}
			if top.valueClosed && tok.Balance == top.balance {
				result.Modifiers.Children = append(result.Modifiers.Children, &ast.Modifier{
					Name:      &ast.Value{Value: top.name, Loc: opts.loc(top.nameStart, top.nameEnd)},
					Value:     &ast.Value{Value: raw[top.valueStart:top.valueEnd], Loc: opts.loc(top.valueStart, top.valueEnd)},
					Exception: top.exception,
					Loc:       opts.loc(top.start, tok.End),
				})
				cuts = append(cuts, [2]int{top.start, tok.End})
				stack = stack[:len(stack)-1]
				locked = top.name == StyleModifier || top.name == RemoveModifier
			}
		}
	}

	if len(stack) > 0 {
		n := len(raw)
		return nil, newError(ErrUnexpectedEndOfInput, fmt.Sprintf("Unclosed modifier %q", stack[0].name), opts.BaseOffset, stack[0].start, n)
	}

	var buf strings.Builder
	prev := 0
	for _, cut := range cuts {
		appendSegment(&buf, raw[prev:cut[0]])
		prev = cut[1]
	}
	appendSegment(&buf, raw[prev:])
	result.Selector = &ast.Value{Value: strings.TrimSpace(buf.String()), Loc: opts.loc(0, len(raw))}

	return result, nil
}

// appendSegment appends a piece of the selector left between modifiers.
// Leading whitespace is dropped when buf already ends with whitespace.
func appendSegment(buf *strings.Builder, seg string) {
	if str := buf.String(); len(str) > 0 && isWhitespace(str[len(str)-1]) {
		seg = seg[skipWS(seg, 0):]
	}
	buf.WriteString(seg)
}

// unwrapNegations walks backwards from the colon of a nested modifier and
// checks that every enclosing block is a ":not(" wrapper, ignoring
// whitespace inside the wrappers. Each wrapper toggles the exception flag
// and widens the frame to include it.
func unwrapNegations(s *TokenStream, frame *modifierFrame, opts Options) error {
	colon := s.Current()
	if frame.name != MatchesPathModifier {
		return newError(ErrPseudoCannotBeNestedInOther, fmt.Sprintf("Modifier %q cannot be nested in other pseudo-classes", frame.name), opts.BaseOffset, colon.Start, colon.End)
	}

	i := s.prevNonWhitespace(s.Index() - 1)
	for level := colon.Balance; level > 0; level-- {
		fn := s.Get(i)
		if fn == nil || fn.Kind != token.Function || !strings.EqualFold(s.FragmentAt(i), notPseudo+"(") {
			start, end := colon.Start, colon.End
			if fn != nil {
				start, end = fn.Start, fn.End
			}
			return newError(ErrPseudoCannotBeNestedInOther, fmt.Sprintf("Modifier %q can only be wrapped in %q", frame.name, ":"+notPseudo+"()"), opts.BaseOffset, start, end)
		}

		before := s.Get(i - 1)
		if before == nil || before.Kind != token.Colon {
			start := fn.Start
			got := "nothing"
			if before != nil {
				start = before.Start
				got = fmt.Sprintf("%q", s.FragmentAt(i-1))
			}
			return newError(ErrExpectedColonButGotBefore, fmt.Sprintf("Expected ':' before %q, but got %s", s.FragmentAt(i), got), opts.BaseOffset, start, fn.End)
		}

		frame.exception = !frame.exception
		frame.start = before.Start
		frame.balance = before.Balance
		i = s.prevNonWhitespace(i - 2)
	}
	return nil
}
