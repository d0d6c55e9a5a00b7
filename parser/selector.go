package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/filterlists/agtree/ast"
	"github.com/filterlists/agtree/token"
)

// selectorContext holds the state of one selector list parse.
type selectorContext struct {
	raw    string
	stream *TokenStream
	opts   Options

	result  *ast.SelectorList
	complex *ast.ComplexSelector

	// start and end of the current complex selector, relative to raw
	start int
	end   int

	// typeSelectorSet is true once the current compound selector has a type
	// selector.
	typeSelectorSet bool
}

// ParseSelectorList parses a comma separated list of complex selectors.
func ParseSelectorList(raw string, opts Options) (*ast.SelectorList, error) {
	stream, err := NewTokenStream(raw, opts.BaseOffset)
	if err != nil {
		return nil, err
	}

	ctx := &selectorContext{
		raw:     raw,
		stream:  stream,
		opts:    opts,
		result:  &ast.SelectorList{Loc: opts.loc(0, len(raw))},
		complex: &ast.ComplexSelector{},
	}

	for !stream.IsEOF() {
		if err := ctx.consume(); err != nil {
			return nil, err
		}
	}

	if err := ctx.closeComplexSelector(nil); err != nil {
		return nil, err
	}
	return ctx.result, nil
}

// consume dispatches on the kind of the current token.
func (ctx *selectorContext) consume() error {
	s := ctx.stream
	tok := s.Current()

	switch tok.Kind {
	case token.Ident:
		return ctx.consumeTypeSelector()
	case token.Hash:
		return ctx.consumeIdSelector()
	case token.LBrack:
		return ctx.consumeAttributeSelector()
	case token.Colon:
		return ctx.consumePseudoClassSelector()
	case token.Whitespace:
		return ctx.consumeWhitespace()
	case token.Comma:
		if err := ctx.closeComplexSelector(tok); err != nil {
			return err
		}
		s.Advance()
		return nil
	case token.Delim:
		switch s.Fragment() {
		case ast.UniversalSelector:
			return ctx.consumeTypeSelector()
		case ".":
			return ctx.consumeClassSelector()
		case ast.ChildCombinator, ast.NextSiblingCombinator, ast.SubsequentSiblingCombinator:
			return ctx.consumeCombinator()
		}
	}
	return ctx.unexpected(tok)
}

// consumeTypeSelector consumes an element name or "*".
func (ctx *selectorContext) consumeTypeSelector() error {
	tok := ctx.stream.Current()
	if last := ctx.last(); last != nil && !isCombinator(last) {
		if _, ok := last.(*ast.TypeSelector); ok && ctx.typeSelectorSet {
			return ctx.errorf(ErrDuplicateTypeSelector, tok.Start, tok.End, "Duplicate type selector %q", ctx.stream.Fragment())
		}
		return ctx.errorf(ErrTypeSelectorMustBeFirst, tok.Start, tok.End, "Type selector %q must be the first selector in a compound selector", ctx.stream.Fragment())
	}

	ctx.push(&ast.TypeSelector{Value: unescape(ctx.stream.Fragment()), Loc: ctx.opts.loc(tok.Start, tok.End)}, tok.Start, tok.End)
	ctx.typeSelectorSet = true
	ctx.stream.Advance()
	return nil
}

// consumeIdSelector consumes a "#id" hash token.
func (ctx *selectorContext) consumeIdSelector() error {
	tok := ctx.stream.Current()
	value := unescape(ctx.stream.Fragment()[1:])
	ctx.push(&ast.IdSelector{Value: value, Loc: ctx.opts.loc(tok.Start, tok.End)}, tok.Start, tok.End)
	ctx.stream.Advance()
	return nil
}

// consumeClassSelector consumes a "." delimiter followed by an identifier.
func (ctx *selectorContext) consumeClassSelector() error {
	s := ctx.stream
	dot := s.Current()
	s.Advance()

	if err := s.Expect(token.Ident, Expectation{}); err != nil {
		return err
	}
	ident := s.Current()
	ctx.push(&ast.ClassSelector{Value: unescape(s.Fragment()), Loc: ctx.opts.loc(dot.Start, ident.End)}, dot.Start, ident.End)
	s.Advance()
	return nil
}

// consumeAttributeSelector consumes "[name]" or "[name op value flag]".
func (ctx *selectorContext) consumeAttributeSelector() error {
	s := ctx.stream
	open := s.Current()
	s.Advance()
	s.SkipWhitespace()

	if err := s.Expect(token.Ident, Expectation{}); err != nil {
		return err
	}
	attr := &ast.AttributeSelector{Name: unescape(s.Fragment())}
	s.Advance()
	s.SkipWhitespace()

	tok, err := s.CurrentOrFail()
	if err != nil {
		return err
	}
	if tok.Kind != token.RBrack {
		if attr.Operator, err = ctx.consumeAttributeOperator(); err != nil {
			return err
		}
		s.SkipWhitespace()

		if tok, err = s.CurrentOrFail(); err != nil {
			return err
		}
		switch tok.Kind {
		case token.String:
			attr.Value = unquote(s.Fragment())
		case token.Ident:
			attr.Value = unescape(s.Fragment())
		default:
			return ctx.errorf(ErrUnexpectedToken, tok.Start, tok.End, "Expected attribute value, but got %q", s.Fragment())
		}
		s.Advance()
		s.SkipWhitespace()

		if tok, err = s.CurrentOrFail(); err != nil {
			return err
		}
		if tok.Kind == token.Ident {
			flag := s.Fragment()
			if !strings.EqualFold(flag, "i") && !strings.EqualFold(flag, "s") {
				return ctx.errorf(ErrUnexpectedToken, tok.Start, tok.End, "Unexpected attribute flag %q", flag)
			}
			attr.Flag = flag
			s.Advance()
			s.SkipWhitespace()
		}
	}

	if err := s.Expect(token.RBrack, Expectation{}); err != nil {
		return err
	}
	end := s.Current().End
	s.Advance()

	attr.Loc = ctx.opts.loc(open.Start, end)
	ctx.push(attr, open.Start, end)
	return nil
}

// consumeAttributeOperator consumes "=" or a two character operator such as
// "^=", which the tokenizer reports as two delimiters.
func (ctx *selectorContext) consumeAttributeOperator() (string, error) {
	s := ctx.stream
	tok := s.Current()
	if tok.Kind != token.Delim {
		return "", ctx.errorf(ErrUnexpectedToken, tok.Start, tok.End, "Expected attribute operator, but got %q", s.Fragment())
	}

	switch op := s.Fragment(); op {
	case "=":
		s.Advance()
		return op, nil
	case "~", "^", "$", "*", "|":
		next := s.Lookahead(1)
		if next == nil || next.Kind != token.Delim || s.FragmentAt(s.Index()+1) != "=" {
			return "", ctx.errorf(ErrUnexpectedOperator, tok.Start, tok.End, "Expected '=' after %q", op)
		}
		s.Advance()
		s.Advance()
		return op + "=", nil
	default:
		return "", ctx.errorf(ErrUnexpectedOperator, tok.Start, tok.End, "Unexpected attribute operator %q", op)
	}
}

// consumePseudoClassSelector consumes ":name" or ":name(argument)".
func (ctx *selectorContext) consumePseudoClassSelector() error {
	s := ctx.stream
	colon := s.Current()
	s.Advance()

	tok, err := s.CurrentOrFail()
	if err != nil {
		return err
	}

	switch tok.Kind {
	case token.Ident:
		ctx.push(&ast.PseudoClassSelector{Name: unescape(s.Fragment()), Loc: ctx.opts.loc(colon.Start, tok.End)}, colon.Start, tok.End)
		s.Advance()
		return nil

	case token.Function:
		fn := s.Fragment()
		s.SkipUntilBalanced()
		closing, err := s.CurrentOrFail()
		if err != nil {
			return err
		}

		// The argument runs from the opening parenthesis to the last
		// non-whitespace token before the closing one.
		start := tok.End
		end := skipWSBack(ctx.raw, closing.Start-1) + 1
		if end < start {
			end = start
		}

		ctx.push(&ast.PseudoClassSelector{
			Name:     unescape(fn[:len(fn)-1]),
			Argument: &ast.Value{Value: ctx.raw[start:end], Loc: ctx.opts.loc(start, end)},
			Loc:      ctx.opts.loc(colon.Start, closing.End),
		}, colon.Start, closing.End)
		s.Advance()
		return nil
	}

	return ctx.errorf(ErrUnexpectedToken, tok.Start, tok.End, "Expected pseudo-class name, but got %q", s.Fragment())
}

// consumeWhitespace consumes whitespace, which is a descendant combinator
// only between two compound selectors.
func (ctx *selectorContext) consumeWhitespace() error {
	s := ctx.stream
	tok := s.Current()
	defer s.Advance()

	if last := ctx.last(); last == nil || isCombinator(last) {
		return nil
	}

	next := s.LookaheadForNonWhitespace()
	if next == nil || next.Kind == token.Comma {
		return nil
	}
	if next.Kind == token.Delim && isCombinatorValue(ctx.raw[next.Start:next.End]) {
		return nil
	}

	ctx.push(&ast.SelectorCombinator{Value: ast.DescendantCombinator, Loc: ctx.opts.loc(tok.Start, tok.End)}, tok.Start, tok.End)
	ctx.typeSelectorSet = false
	return nil
}

// consumeCombinator consumes ">", "+" or "~".
func (ctx *selectorContext) consumeCombinator() error {
	s := ctx.stream
	tok := s.Current()
	if last := ctx.last(); last == nil || isCombinator(last) {
		return ctx.errorf(ErrUnexpectedToken, tok.Start, tok.End, "Unexpected combinator %q", s.Fragment())
	}

	ctx.push(&ast.SelectorCombinator{Value: s.Fragment(), Loc: ctx.opts.loc(tok.Start, tok.End)}, tok.Start, tok.End)
	ctx.typeSelectorSet = false
	s.Advance()
	return nil
}

// closeComplexSelector appends the current complex selector to the result
// and opens a new one. Tok is the comma closing the selector, or nil at the
// end of the input.
func (ctx *selectorContext) closeComplexSelector(tok *BalancedToken) error {
	if last := ctx.last(); last == nil || isCombinator(last) {
		if tok == nil {
			n := len(ctx.raw)
			return ctx.errorf(ErrUnexpectedEndOfInput, n, n, "Unexpected end of selector")
		}
		return ctx.errorf(ErrUnexpectedToken, tok.Start, tok.End, "Unexpected comma")
	}

	ctx.complex.Loc = ctx.opts.loc(ctx.start, ctx.end)
	ctx.result.Children = append(ctx.result.Children, ctx.complex)
	ctx.complex = &ast.ComplexSelector{}
	ctx.typeSelectorSet = false
	return nil
}

// push appends a selector spanning [start, end) to the current complex
// selector.
func (ctx *selectorContext) push(sel ast.Selector, start, end int) {
	if len(ctx.complex.Children) == 0 {
		ctx.start = start
	}
	ctx.end = end
	ctx.complex.Children = append(ctx.complex.Children, sel)
}

// last returns the last component of the current complex selector.
func (ctx *selectorContext) last() ast.Selector {
	if n := len(ctx.complex.Children); n > 0 {
		return ctx.complex.Children[n-1]
	}
	return nil
}

// unexpected returns an ErrUnexpectedToken error for tok.
func (ctx *selectorContext) unexpected(tok *BalancedToken) error {
	return ctx.errorf(ErrUnexpectedToken, tok.Start, tok.End, "Unexpected token %q with value %q", tok.Kind.String(), ctx.raw[tok.Start:tok.End])
}

// errorf returns a syntax error for the relative range [start, end).
func (ctx *selectorContext) errorf(err error, start, end int, format string, v ...interface{}) error {
	return newError(err, fmt.Sprintf(format, v...), ctx.opts.BaseOffset, start, end)
}

// isCombinator returns true if sel is a combinator.
func isCombinator(sel ast.Selector) bool {
	_, ok := sel.(*ast.SelectorCombinator)
	return ok
}

// isCombinatorValue returns true if s is an explicit combinator.
func isCombinatorValue(s string) bool {
	return s == ast.ChildCombinator || s == ast.NextSiblingCombinator || s == ast.SubsequentSiblingCombinator
}

// unquote strips the quotes of a string token and resolves its escapes.
func unquote(s string) string {
	if len(s) == 0 {
		return s
	}
	quote := s[0]
	s = s[1:]
	if len(s) > 0 && s[len(s)-1] == quote && !isEscaped(s, len(s)-1) {
		s = s[:len(s)-1]
	}
	return unescape(s)
}

// unescape resolves the escapes of an identifier or string body.
func unescape(s string) string {
	if strings.IndexByte(s, '\\') == -1 {
		return s
	}

	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			buf.WriteByte(s[i])
			continue
		}
		i++

		// Escaped newlines are line continuations.
		if s[i] == '\n' {
			continue
		}

		// Up to six hex digits, optionally followed by one whitespace.
		j := i
		for j < len(s) && j-i < 6 && isHexDigit(s[j]) {
			j++
		}
		if j == i {
			buf.WriteByte(s[i])
			continue
		}
		v, _ := strconv.ParseUint(s[i:j], 16, 32)
		if v == 0 || v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
			v = 0xFFFD
		}
		buf.WriteRune(rune(v))
		if j < len(s) && isWhitespace(s[j]) {
			j++
		}
		i = j - 1
	}
	return buf.String()
}

// isHexDigit returns true if the byte is a hex digit.
func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
