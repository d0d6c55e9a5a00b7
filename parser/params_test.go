package parser_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/filterlists/agtree/ast"
	"github.com/filterlists/agtree/parser"
)

// values converts a parameter list into strings, with "<nil>" for empty
// slots.
func values(list *ast.ParameterList) []string {
	var a []string
	for _, v := range list.Children {
		if v == nil {
			a = append(a, "<nil>")
		} else {
			a = append(a, v.Value)
		}
	}
	return a
}

// Ensure that parameters are split on unquoted, unescaped separators.
func TestParseParameterList(t *testing.T) {
	var tests = []struct {
		s   string
		sep byte
		exp []string
	}{
		{s: ``, sep: ',', exp: nil},
		{s: `   `, sep: ',', exp: nil},
		{s: `a`, sep: ',', exp: []string{"a"}},
		{s: `a, b ,c`, sep: ',', exp: []string{"a", "b", "c"}},
		{s: `,`, sep: ',', exp: []string{"<nil>", "<nil>"}},
		{s: `a,,b`, sep: ',', exp: []string{"a", "<nil>", "b"}},
		{s: `,a`, sep: ',', exp: []string{"<nil>", "a"}},
		{s: `a,`, sep: ',', exp: []string{"a", "<nil>"}},
		{s: `a, `, sep: ',', exp: []string{"a", "<nil>"}},
		{s: `'a,b', "c,d", ` + "`e,f`", sep: ',', exp: []string{`'a,b'`, `"c,d"`, "`e,f`"}},
		{s: `/a,b/, c`, sep: ',', exp: []string{`/a,b/`, "c"}},
		{s: `a\,b,c`, sep: ',', exp: []string{`a\,b`, "c"}},
		{s: `x a,b`, sep: ' ', exp: []string{"x", "a,b"}},
		{s: `json-prune  a.b`, sep: ' ', exp: []string{"json-prune", "<nil>", "a.b"}},
	}

	for i, tt := range tests {
		list, err := parser.ParseParameterList(tt.s, tt.sep, parser.Options{})
		if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.s, err)
			continue
		}
		if diff := cmp.Diff(tt.exp, values(list)); diff != "" {
			t.Errorf("%d. <%q> mismatch (-want +got):\n%s", i, tt.s, diff)
		}
	}
}

// Ensure that the number of slots is the number of separators plus one.
func TestParseParameterList_SlotCount(t *testing.T) {
	for i, s := range []string{`,`, `,,`, `a,,`, `,b,`, `a,b,c`, `'x,y',,`} {
		list, err := parser.ParseParameterList(s, ',', parser.Options{})
		if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, s, err)
			continue
		}

		n := 1
		for j := 0; j < len(s); j++ {
			if s[j] == ',' {
				n++
			}
		}
		if s == `'x,y',,` {
			n-- // the quoted separator does not split
		}
		if len(list.Children) != n {
			t.Errorf("%d. <%q> got %d slots, want %d", i, s, len(list.Children), n)
		}
	}
}

// Ensure that parameter locations are absolute.
func TestParseParameterList_Loc(t *testing.T) {
	list, err := parser.ParseParameterList(` a , 'b' `, ',', parser.Options{IncludeLoc: true, BaseOffset: 5})
	if err != nil {
		t.Fatal(err)
	}

	exp := &ast.ParameterList{
		Children: []*ast.Value{
			{Value: "a", Loc: ast.NewLoc(6, 7)},
			{Value: "'b'", Loc: ast.NewLoc(10, 13)},
		},
		Loc: ast.NewLoc(5, 14),
	}
	if diff := cmp.Diff(exp, list); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// Ensure that the quoted variant requires quotes.
func TestParseQuotedParameterList(t *testing.T) {
	var tests = []struct {
		s     string
		exp   []string
		err   error
		start int
	}{
		{s: `'a', "b"`, exp: []string{`'a'`, `"b"`}},
		{s: `'a\'b'`, exp: []string{`'a\'b'`}},
		{s: `'a',,'c'`, exp: []string{`'a'`, "<nil>", `'c'`}},
		{s: `'a',`, exp: []string{`'a'`, "<nil>"}},
		{s: ``, exp: nil},
		{s: `a`, err: parser.ErrExpectedQuote, start: 0},
		{s: `'a', b`, err: parser.ErrExpectedQuote, start: 5},
		{s: `'a`, err: parser.ErrExpectedClosingQuote, start: 0},
		{s: `'a' b`, err: parser.ErrExpectedSeparator, start: 4},
	}

	for i, tt := range tests {
		list, err := parser.ParseQuotedParameterList(tt.s, ',', parser.Options{})
		if tt.err != nil {
			var e *parser.Error
			if !errors.As(err, &e) || !errors.Is(err, tt.err) {
				t.Errorf("%d. <%q> got %v, want %v", i, tt.s, err, tt.err)
			} else if e.Start != tt.start {
				t.Errorf("%d. <%q> got start %d, want %d", i, tt.s, e.Start, tt.start)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.s, err)
			continue
		}
		if diff := cmp.Diff(tt.exp, values(list)); diff != "" {
			t.Errorf("%d. <%q> mismatch (-want +got):\n%s", i, tt.s, diff)
		}
	}
}
