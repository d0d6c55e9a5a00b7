package parser_test

import (
	"errors"
	"testing"

	"github.com/filterlists/agtree/parser"
	"github.com/filterlists/agtree/token"
)

// Ensure that every token records the nesting depth after it.
func TestNewTokenStream_Balance(t *testing.T) {
	var tests = []struct {
		s       string
		balance []int
	}{
		{s: ``, balance: nil},
		{s: `a b`, balance: []int{0, 0, 0}},
		{s: `a(b)`, balance: []int{1, 1, 0}},
		{s: `(a[b]{c})`, balance: []int{1, 1, 2, 2, 1, 2, 2, 1, 0}},
		{s: `:not(:has(a))`, balance: []int{0, 1, 1, 2, 2, 1, 0}},
	}

	for i, tt := range tests {
		s, err := parser.NewTokenStream(tt.s, 0)
		if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.s, err)
			continue
		}
		if s.Len() != len(tt.balance) {
			t.Errorf("%d. <%q> token count: got %d, want %d", i, tt.s, s.Len(), len(tt.balance))
			continue
		}
		for j, b := range tt.balance {
			if tok := s.Get(j); tok.Balance != b {
				t.Errorf("%d. <%q> token %d (%s): got balance %d, want %d", i, tt.s, j, s.FragmentAt(j), tok.Balance, b)
			}
		}
	}
}

// Ensure that unbalanced input is rejected with the offending position.
func TestNewTokenStream_Unbalanced(t *testing.T) {
	var tests = []struct {
		s     string
		start int
		end   int
		msg   string
	}{
		{s: `a)`, start: 11, end: 12, msg: `Unexpected closing ")" without an opening pair`},
		{s: `(a]`, start: 12, end: 13, msg: `Expected ")", but got "]"`},
		{s: `x[a`, start: 11, end: 13, msg: `Missing "]" for "["`},
		{s: `fn(a(b)`, start: 10, end: 17, msg: `Missing ")" for "fn("`},
	}

	for i, tt := range tests {
		_, err := parser.NewTokenStream(tt.s, 10)
		var e *parser.Error
		if !errors.As(err, &e) {
			t.Errorf("%d. <%q> expected *parser.Error, got %v", i, tt.s, err)
			continue
		}
		if !errors.Is(err, parser.ErrUnbalancedDelimiters) {
			t.Errorf("%d. <%q> unexpected error class: %v", i, tt.s, e.Err)
		}
		if e.Start != tt.start || e.End != tt.end || e.Message != tt.msg {
			t.Errorf("%d. <%q> got %q [%d,%d], want %q [%d,%d]", i, tt.s, e.Message, e.Start, e.End, tt.msg, tt.start, tt.end)
		}
	}
}

// Ensure that the function stream ignores square and curly brackets.
func TestNewFunctionTokenStream(t *testing.T) {
	s, err := parser.NewFunctionTokenStream(`:style(a { b ])`, 0)
	if err != nil {
		t.Fatal(err)
	}
	last := s.Get(s.Len() - 1)
	if last.Kind != token.RParen || last.Balance != 0 {
		t.Fatalf("unexpected last token: %#v", last)
	}

	if _, err := parser.NewFunctionTokenStream(`:style(a`, 0); !errors.Is(err, parser.ErrUnbalancedDelimiters) {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure that the stream can be navigated.
func TestTokenStream_Navigation(t *testing.T) {
	s, err := parser.NewTokenStream(`a  (b c) d`, 0)
	if err != nil {
		t.Fatal(err)
	}

	// a, ws, (, b, ws, c, ), ws, d
	if s.Len() != 9 {
		t.Fatalf("unexpected length: %d", s.Len())
	}
	if s.Fragment() != "a" || s.Lookbehind(1) != nil {
		t.Fatalf("unexpected start: %q", s.Fragment())
	}
	if tok := s.LookaheadForNonWhitespace(); tok == nil || tok.Kind != token.LParen {
		t.Fatalf("unexpected lookahead: %#v", tok)
	}

	s.Advance()
	if n := s.SkipWhitespace(); n != 1 || s.Fragment() != "(" {
		t.Fatalf("unexpected skip: %d, %q", n, s.Fragment())
	}
	if tok := s.LookbehindForNonWhitespace(); tok == nil || tok.Kind != token.Ident {
		t.Fatalf("unexpected lookbehind: %#v", tok)
	}

	s.Advance()
	if n := s.SkipUntilBalanced(); n != 3 || s.Fragment() != ")" {
		t.Fatalf("unexpected skip until balanced: %d, %q", n, s.Fragment())
	}
	if tok := s.Lookahead(2); tok == nil || s.FragmentAt(s.Index()+2) != "d" {
		t.Fatalf("unexpected lookahead: %#v", tok)
	}

	if err := s.Expect(token.RParen, parser.Expectation{Value: ")"}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	zero := 0
	if err := s.Expect(token.RParen, parser.Expectation{Balance: &zero}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	one := 1
	if err := s.Expect(token.RParen, parser.Expectation{Balance: &one}); !errors.Is(err, parser.ErrUnexpectedToken) {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Expect(token.Ident, parser.Expectation{}); err == nil || err.Error() != `Expected "ident", but got ")" with value ")"` {
		t.Fatalf("unexpected error: %v", err)
	}

	s.SkipUntil(token.Ident)
	if s.Fragment() != "d" {
		t.Fatalf("unexpected token: %q", s.Fragment())
	}
	s.Advance()
	if !s.IsEOF() || s.Current() != nil {
		t.Fatal("expected end of stream")
	}
	s.Advance()
	if s.Index() != s.Len() {
		t.Fatalf("advanced past the end: %d", s.Index())
	}
	if _, err := s.CurrentOrFail(); !errors.Is(err, parser.ErrUnexpectedEndOfInput) {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Expect(token.Ident, parser.Expectation{}); !errors.Is(err, parser.ErrUnexpectedEndOfInput) {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure that SkipUntilBalance honors the depth.
func TestTokenStream_SkipUntilBalance(t *testing.T) {
	s, err := parser.NewTokenStream(`a(b,c),d`, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n := s.SkipUntilBalance(token.Comma, 0); n != 5 || s.Fragment() != "," || s.Current().Start != 6 {
		t.Fatalf("unexpected skip: %d, %#v", n, s.Current())
	}
}
