package parser

import (
	"fmt"

	"github.com/filterlists/agtree/scanner"
	"github.com/filterlists/agtree/token"
)

// BalancedToken is a token annotated with its nesting depth.
// Balance is the depth after the token: an opening delimiter records the
// depth it opens, a closing delimiter the depth it returns to.
type BalancedToken struct {
	token.Token
	Balance int
}

// TokenStream is a random access token stream with balance information.
type TokenStream struct {
	src    string
	offset int
	tokens []BalancedToken
	i      int
}

// NewTokenStream tokenizes src and annotates the tokens with the nesting
// depth of parentheses, functions, square and curly brackets.
// Offset is added to every offset reported in errors.
func NewTokenStream(src string, offset int) (*TokenStream, error) {
	return newTokenStream(src, offset, false)
}

// NewFunctionTokenStream is like NewTokenStream but only tracks
// parentheses and functions, so that square and curly brackets may appear
// unbalanced inside values.
func NewFunctionTokenStream(src string, offset int) (*TokenStream, error) {
	return newTokenStream(src, offset, true)
}

// opener tracks an open delimiter while computing balances.
type opener struct {
	closer token.Kind
	index  int
}

func newTokenStream(src string, offset int, functionOnly bool) (*TokenStream, error) {
	s := &TokenStream{src: src, offset: offset}
	scanner.Tokenize(src, func(kind token.Kind, start, end int) {
		s.tokens = append(s.tokens, BalancedToken{Token: token.Token{Kind: kind, Start: start, End: end}})
	})

	var stack []opener
	for i := range s.tokens {
		tok := &s.tokens[i]
		switch tok.Kind {
		case token.Function, token.LParen, token.LBrack, token.LBrace:
			if functionOnly && tok.Kind != token.Function && tok.Kind != token.LParen {
				break
			}
			closer, _ := tok.Kind.Closer()
			stack = append(stack, opener{closer: closer, index: i})
		case token.RParen, token.RBrack, token.RBrace:
			if functionOnly && tok.Kind != token.RParen {
				break
			}
			if len(stack) == 0 {
				return nil, newError(ErrUnbalancedDelimiters, fmt.Sprintf("Unexpected closing %q without an opening pair", s.src[tok.Start:tok.End]), offset, tok.Start, tok.End)
			}
			if top := stack[len(stack)-1]; top.closer != tok.Kind {
				return nil, newError(ErrUnbalancedDelimiters, fmt.Sprintf("Expected %q, but got %q", top.closer.String(), tok.Kind.String()), offset, tok.Start, tok.End)
			}
			stack = stack[:len(stack)-1]
		}
		tok.Balance = len(stack)
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		open := s.tokens[top.index]
		return nil, newError(ErrUnbalancedDelimiters, fmt.Sprintf("Missing %q for %q", top.closer.String(), s.src[open.Start:open.End]), offset, open.Start, len(src))
	}

	return s, nil
}

// Source returns the tokenized text.
func (s *TokenStream) Source() string { return s.src }

// Offset returns the base offset of the stream.
func (s *TokenStream) Offset() int { return s.offset }

// Len returns the number of tokens.
func (s *TokenStream) Len() int { return len(s.tokens) }

// Index returns the index of the current token.
func (s *TokenStream) Index() int { return s.i }

// IsEOF returns true if all tokens have been consumed.
func (s *TokenStream) IsEOF() bool { return s.i >= len(s.tokens) }

// Current returns the current token or nil at the end of the stream.
func (s *TokenStream) Current() *BalancedToken { return s.Get(s.i) }

// Get returns the token at index i or nil if it does not exist.
func (s *TokenStream) Get(i int) *BalancedToken {
	if i < 0 || i >= len(s.tokens) {
		return nil
	}
	return &s.tokens[i]
}

// CurrentOrFail returns the current token or an ErrUnexpectedEndOfInput error.
func (s *TokenStream) CurrentOrFail() (*BalancedToken, error) { return s.GetOrFail(s.i) }

// GetOrFail returns the token at index i or an ErrUnexpectedEndOfInput error.
func (s *TokenStream) GetOrFail(i int) (*BalancedToken, error) {
	if tok := s.Get(i); tok != nil {
		return tok, nil
	}
	return nil, s.endOfInput()
}

// Advance moves to the next token.
func (s *TokenStream) Advance() {
	if s.i < len(s.tokens) {
		s.i++
	}
}

// Lookahead returns the token n positions after the current one.
func (s *TokenStream) Lookahead(n int) *BalancedToken { return s.Get(s.i + n) }

// Lookbehind returns the token n positions before the current one.
func (s *TokenStream) Lookbehind(n int) *BalancedToken { return s.Get(s.i - n) }

// LookaheadForNonWhitespace returns the first non-whitespace token after
// the current one.
func (s *TokenStream) LookaheadForNonWhitespace() *BalancedToken {
	for i := s.i + 1; i < len(s.tokens); i++ {
		if s.tokens[i].Kind != token.Whitespace {
			return &s.tokens[i]
		}
	}
	return nil
}

// LookbehindForNonWhitespace returns the first non-whitespace token before
// the current one.
func (s *TokenStream) LookbehindForNonWhitespace() *BalancedToken {
	return s.Get(s.prevNonWhitespace(s.i - 1))
}

// prevNonWhitespace returns the index of the last non-whitespace token at
// or before i, or -1.
func (s *TokenStream) prevNonWhitespace(i int) int {
	for ; i >= 0; i-- {
		if s.tokens[i].Kind != token.Whitespace {
			return i
		}
	}
	return -1
}

// SkipWhitespace consumes contiguous whitespace tokens and returns the
// number of skipped tokens.
func (s *TokenStream) SkipWhitespace() int {
	start := s.i
	for s.i < len(s.tokens) && s.tokens[s.i].Kind == token.Whitespace {
		s.i++
	}
	return s.i - start
}

// SkipUntilBalanced consumes tokens until the token closing the block that
// the current token opens (or is enclosed in), which becomes the current
// token. Returns the number of skipped tokens.
func (s *TokenStream) SkipUntilBalanced() int {
	if s.i >= len(s.tokens) {
		return 0
	}
	start, balance := s.i, s.tokens[s.i].Balance
	for s.i < len(s.tokens) && s.tokens[s.i].Balance != balance-1 {
		s.i++
	}
	return s.i - start
}

// SkipUntil consumes tokens until a token of the given kind, which becomes
// the current token. Returns the number of skipped tokens.
func (s *TokenStream) SkipUntil(kind token.Kind) int {
	start := s.i
	for s.i < len(s.tokens) && s.tokens[s.i].Kind != kind {
		s.i++
	}
	return s.i - start
}

// SkipUntilBalance is like SkipUntil but also requires the token to have
// the given balance.
func (s *TokenStream) SkipUntilBalance(kind token.Kind, balance int) int {
	start := s.i
	for s.i < len(s.tokens) && (s.tokens[s.i].Kind != kind || s.tokens[s.i].Balance != balance) {
		s.i++
	}
	return s.i - start
}

// Expectation refines Expect. An empty Value matches any text and a nil
// Balance matches any depth.
type Expectation struct {
	Value   string
	Balance *int
}

// Expect checks that the current token has the given kind and satisfies
// the expectation. The stream is not advanced.
func (s *TokenStream) Expect(kind token.Kind, x Expectation) error {
	tok, err := s.CurrentOrFail()
	if err != nil {
		return err
	}
	if tok.Kind != kind {
		return s.unexpected(tok, kind, x.Value)
	}
	if x.Value != "" && s.FragmentAt(s.i) != x.Value {
		return s.unexpected(tok, kind, x.Value)
	}
	if x.Balance != nil && tok.Balance != *x.Balance {
		return newError(ErrUnexpectedToken, fmt.Sprintf("Expected %q with balance %d, but got balance %d", kind.String(), *x.Balance, tok.Balance), s.offset, tok.Start, tok.End)
	}
	return nil
}

// Fragment returns the text of the current token.
func (s *TokenStream) Fragment() string { return s.FragmentAt(s.i) }

// FragmentAt returns the text of the token at index i.
func (s *TokenStream) FragmentAt(i int) string {
	tok := s.Get(i)
	if tok == nil {
		return ""
	}
	return s.src[tok.Start:tok.End]
}

// unexpected returns an ErrUnexpectedToken error describing tok.
func (s *TokenStream) unexpected(tok *BalancedToken, kind token.Kind, value string) *Error {
	got := s.src[tok.Start:tok.End]
	var msg string
	if value != "" {
		msg = fmt.Sprintf("Expected %q with value %q, but got %q with value %q", kind.String(), value, tok.Kind.String(), got)
	} else {
		msg = fmt.Sprintf("Expected %q, but got %q with value %q", kind.String(), tok.Kind.String(), got)
	}
	return newError(ErrUnexpectedToken, msg, s.offset, tok.Start, tok.End)
}

// endOfInput returns an ErrUnexpectedEndOfInput error at the end of the
// source.
func (s *TokenStream) endOfInput() *Error {
	n := len(s.src)
	return newError(ErrUnexpectedEndOfInput, "Unexpected end of input", s.offset, n, n)
}
