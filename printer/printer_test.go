package printer_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/filterlists/agtree/ast"
	"github.com/filterlists/agtree/parser"
	"github.com/filterlists/agtree/printer"
)

// Ensure that the printer prints nodes correctly.
func TestPrinter_Print(t *testing.T) {
	var tests = []struct {
		in ast.Node
		s  string
	}{
		// Test that nil values are safe to print.
		{in: (*ast.Value)(nil), s: ``},               // 0
		{in: (*ast.List)(nil), s: ``},                // 1
		{in: (*ast.SelectorList)(nil), s: ``},        // 2
		{in: (*ast.Operator)(nil), s: ``},            // 3
		{in: (*ast.VendorSelector)(nil), s: ``},      // 4
		{in: (*ast.PreProcessorComment)(nil), s: ``}, // 5

		// Lists and parameters.
		{in: &ast.List{Separator: ',', Children: []*ast.ListItem{{Value: "a.com"}, {Value: "b.com", Exception: true}}}, s: `a.com,~b.com`},           // 6
		{in: &ast.List{Separator: '|', Children: []*ast.ListItem{{Value: "GET"}, {Value: "POST"}}}, s: `GET|POST`},                                     // 7
		{in: &ast.ParameterList{Children: []*ast.Value{{Value: "a"}, nil, {Value: "'c'"}}}, s: `a,,'c'`},                                              // 8
		{in: &ast.ModifierList{Children: []*ast.Modifier{{Name: &ast.Value{Value: "script"}, Exception: true}, {Name: &ast.Value{Value: "domain"}, Value: &ast.Value{Value: "a.com"}}}}, s: `~script,domain=a.com`}, // 9

		// Expressions.
		{in: &ast.Operator{Operator: ast.And, Left: &ast.Variable{Name: "a"}, Right: &ast.Operator{Operator: ast.Not, Left: &ast.Variable{Name: "b"}}}, s: `a && !b`}, // 10
		{in: &ast.Parenthesis{Expression: &ast.Operator{Operator: ast.Or, Left: &ast.Variable{Name: "a"}, Right: &ast.Variable{Name: "b"}}}, s: `(a || b)`},         // 11

		// Selectors.
		{in: &ast.AttributeSelector{Name: "href"}, s: `[href]`},                                                   // 12
		{in: &ast.AttributeSelector{Name: "a", Operator: "^=", Value: `x"y`, Flag: "i"}, s: `[a^="x\"y" i]`},      // 13
		{in: &ast.PseudoClassSelector{Name: "hover"}, s: `:hover`},                                                // 14
		{in: &ast.PseudoClassSelector{Name: "not", Argument: &ast.Value{Value: ".a"}}, s: `:not(.a)`},             // 15
		{in: &ast.SelectorCombinator{Value: ast.ChildCombinator}, s: ` > `},                                       // 16
		{in: &ast.SelectorCombinator{Value: ast.DescendantCombinator}, s: ` `},                                    // 17
		{in: &ast.SelectorList{Children: []*ast.ComplexSelector{
			{Children: []ast.Selector{&ast.TypeSelector{Value: "div"}, &ast.IdSelector{Value: "x"}}},
			{Children: []ast.Selector{&ast.ClassSelector{Value: "a"}, &ast.SelectorCombinator{Value: "~"}, &ast.TypeSelector{Value: "p"}}},
		}}, s: `div#x, .a ~ p`}, // 18
		{in: &ast.ClassSelector{Value: "a:b"}, s: `.a\:b`},                                                  // 19
		{in: &ast.TypeSelector{Value: "1a"}, s: `\31 a`},                                                    // 20
		{in: &ast.IdSelector{Value: "1a"}, s: `#1a`},                                                        // 21
		{in: &ast.AttributeSelector{Name: "a", Operator: "=", Value: "x\ty\n"}, s: `[a="x\9 y\a "]`},          // 22

		// Vendor selectors.
		{in: &ast.VendorSelector{
			Selector: &ast.Value{Value: "div"},
			Modifiers: &ast.ModifierList{Children: []*ast.Modifier{
				{Name: &ast.Value{Value: "matches-path"}, Value: &ast.Value{Value: "/x"}, Exception: true},
				{Name: &ast.Value{Value: "style"}, Value: &ast.Value{Value: "color: red"}},
			}},
		}, s: `div:not(:matches-path(/x)):style(color: red)`}, // 23

		// Preprocessor directives.
		{in: &ast.PreProcessorComment{Name: &ast.Value{Value: "endif"}}, s: `!#endif`},                                                                       // 24
		{in: &ast.PreProcessorComment{Name: &ast.Value{Value: "if"}, Params: &ast.Variable{Name: "adguard"}}, s: `!#if adguard`},                            // 25
		{in: &ast.PreProcessorComment{Name: &ast.Value{Value: "safari_cb_affinity"}, Params: &ast.ParameterList{Children: []*ast.Value{{Value: "general"}, {Value: "privacy"}}}}, s: `!#safari_cb_affinity(general,privacy)`}, // 26
	}

	for i, tt := range tests {
		var p printer.Printer
		var buf bytes.Buffer
		if err := p.Print(&buf, tt.in); err != nil {
			t.Errorf("%d. unexpected error: %s", i, err)
		} else if buf.String() != tt.s {
			t.Errorf("%d. <%T>\n\nexp: %s\n\ngot: %s", i, tt.in, tt.s, buf.String())
		}
	}
}

// Ensure that parsed selectors print in their normalized form.
func TestPrinter_SelectorRoundTrip(t *testing.T) {
	var tests = []struct {
		in string
		s  string
	}{
		{in: `div`, s: `div`},                                              // 0
		{in: `div  ,  span`, s: `div, span`},                               // 1
		{in: `div>span`, s: `div > span`},                                  // 2
		{in: `div   span`, s: `div span`},                                  // 3
		{in: `a+b~c`, s: `a + b ~ c`},                                      // 4
		{in: `*.ad#top`, s: `*.ad#top`},                                    // 5
		{in: `[data-ad='1' i]`, s: `[data-ad="1" i]`},                      // 6
		{in: `[href^=http]`, s: `[href^="http"]`},                          // 7
		{in: `div:not( .a , .b )`, s: `div:not( .a , .b)`},                 // 8
		{in: ` div:first-child > p.x[y] `, s: `div:first-child > p.x[y]`},  // 9
		{in: `[a="x\A y"]`, s: `[a="x\a y"]`},                              // 10
		{in: `\bb~*`, s: `» ~ *`},                                          // 11
		{in: `\bb ~ *`, s: `» ~ *`},                                        // 12
		{in: `.\31 a`, s: `.\31 a`},                                        // 13
		{in: `.a\:b`, s: `.a\:b`},                                          // 14
	}

	for i, tt := range tests {
		list, err := parser.ParseSelectorList(tt.in, parser.Options{})
		if err != nil {
			t.Errorf("%d. %q: unexpected error: %s", i, tt.in, err)
			continue
		}
		if s := printer.String(list); s != tt.s {
			t.Errorf("%d. %q\n\nexp: %s\n\ngot: %s", i, tt.in, tt.s, s)
		}
		// Printing is idempotent.
		again, err := parser.ParseSelectorList(tt.s, parser.Options{})
		if err != nil {
			t.Errorf("%d. %q: unexpected error on reparse: %s", i, tt.s, err)
		} else if s := printer.String(again); s != tt.s {
			t.Errorf("%d. reparse of %q gave %q", i, tt.s, s)
		}
	}
}

// Ensure that the printer stops at the first write error.
func TestPrinter_Print_WriteError(t *testing.T) {
	var p printer.Printer
	n := &ast.List{Separator: ',', Children: []*ast.ListItem{{Value: "a"}, {Value: "b"}}}
	if err := p.Print(failWriter{}, n); !errors.Is(err, errWrite) {
		t.Fatalf("unexpected error: %v", err)
	}
}

var errWrite = errors.New("write failed")

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errWrite }
