// Package printer generates rule text from syntax trees.
package printer

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/filterlists/agtree/ast"
	"github.com/filterlists/agtree/parser"
)

// Printer prints nodes back to their text form.
//
// Selectors are normalized: combinators other than the descendant
// combinator are surrounded by single spaces, complex selectors are joined
// by ", " and attribute values are always double quoted.
type Printer struct{}

// errWriter remembers the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) WriteString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *errWriter) WriteByte(c byte) error {
	w.WriteString(string(c))
	return w.err
}

// Print writes the text form of n to w.
func (p *Printer) Print(w io.Writer, n ast.Node) error {
	ew := &errWriter{w: w}
	p.print(ew, n)
	return ew.err
}

func (p *Printer) print(w *errWriter, n ast.Node) {
	switch n := n.(type) {
	case *ast.Value:
		if n == nil {
			return
		}
		w.WriteString(n.Value)

	case *ast.Raw:
		if n == nil {
			return
		}
		w.WriteString(n.Value)

	case *ast.ParameterList:
		if n == nil {
			return
		}
		for i, v := range n.Children {
			if i > 0 {
				w.WriteByte(parser.CommaSeparator)
			}
			if v != nil {
				w.WriteString(v.Value)
			}
		}

	case *ast.ListItem:
		if n == nil {
			return
		}
		if n.Exception {
			w.WriteByte('~')
		}
		w.WriteString(n.Value)

	case *ast.List:
		if n == nil {
			return
		}
		for i, item := range n.Children {
			if i > 0 {
				w.WriteByte(n.Separator)
			}
			p.print(w, item)
		}

	case *ast.Modifier:
		if n == nil {
			return
		}
		if n.Exception {
			w.WriteByte('~')
		}
		p.print(w, n.Name)
		if n.Value != nil {
			w.WriteByte('=')
			p.print(w, n.Value)
		}

	case *ast.ModifierList:
		if n == nil {
			return
		}
		for i, m := range n.Children {
			if i > 0 {
				w.WriteByte(',')
			}
			p.print(w, m)
		}

	case *ast.VendorSelector:
		if n == nil {
			return
		}
		p.print(w, n.Selector)
		if n.Modifiers == nil {
			return
		}
		for _, m := range n.Modifiers.Children {
			p.printVendorModifier(w, m)
		}

	case *ast.PreProcessorComment:
		if n == nil {
			return
		}
		w.WriteString(parser.PreProcessorMarker)
		p.print(w, n.Name)
		switch params := n.Params.(type) {
		case nil:
		case *ast.ParameterList:
			w.WriteByte('(')
			p.print(w, params)
			w.WriteByte(')')
		default:
			w.WriteByte(' ')
			p.print(w, params)
		}

	case *ast.Variable:
		if n == nil {
			return
		}
		w.WriteString(n.Name)

	case *ast.Operator:
		if n == nil {
			return
		}
		if n.Operator == ast.Not {
			w.WriteString(ast.Not)
			p.print(w, n.Left)
			return
		}
		p.print(w, n.Left)
		w.WriteString(" " + n.Operator + " ")
		p.print(w, n.Right)

	case *ast.Parenthesis:
		if n == nil {
			return
		}
		w.WriteByte('(')
		p.print(w, n.Expression)
		w.WriteByte(')')

	case *ast.TypeSelector:
		if n == nil {
			return
		}
		if n.Value == ast.UniversalSelector {
			w.WriteString(n.Value)
		} else {
			w.WriteString(ident(n.Value, false))
		}

	case *ast.IdSelector:
		if n == nil {
			return
		}
		w.WriteString("#" + ident(n.Value, true))

	case *ast.ClassSelector:
		if n == nil {
			return
		}
		w.WriteString("." + ident(n.Value, false))

	case *ast.AttributeSelector:
		if n == nil {
			return
		}
		w.WriteByte('[')
		w.WriteString(ident(n.Name, false))
		if n.Operator != "" {
			w.WriteString(n.Operator)
			w.WriteString(quote(n.Value))
			if n.Flag != "" {
				w.WriteString(" " + n.Flag)
			}
		}
		w.WriteByte(']')

	case *ast.PseudoClassSelector:
		if n == nil {
			return
		}
		w.WriteString(":" + ident(n.Name, false))
		if n.Argument != nil {
			w.WriteByte('(')
			p.print(w, n.Argument)
			w.WriteByte(')')
		}

	case *ast.SelectorCombinator:
		if n == nil {
			return
		}
		if n.Value == ast.DescendantCombinator {
			w.WriteString(n.Value)
		} else {
			w.WriteString(" " + n.Value + " ")
		}

	case *ast.ComplexSelector:
		if n == nil {
			return
		}
		for _, s := range n.Children {
			p.print(w, s)
		}

	case *ast.SelectorList:
		if n == nil {
			return
		}
		for i, c := range n.Children {
			if i > 0 {
				w.WriteString(", ")
			}
			p.print(w, c)
		}
	}
}

// printVendorModifier writes m as a ":name(value)" pseudo-class. An exception
// is wrapped in ":not(...)".
func (p *Printer) printVendorModifier(w *errWriter, m *ast.Modifier) {
	if m == nil || m.Name == nil {
		return
	}
	if m.Exception {
		w.WriteString(":not(")
	}
	w.WriteString(":" + m.Name.Value + "(")
	p.print(w, m.Value)
	w.WriteByte(')')
	if m.Exception {
		w.WriteByte(')')
	}
}

// quote returns s as a double quoted CSS string. Control characters are
// written as hex escapes.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case isControl(rune(c)):
			writeHexEscape(&b, rune(c))
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// ident returns s escaped as a CSS identifier. A hash value may start
// with a digit.
func ident(s string, hash bool) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			if !hash && (i == 0 || (i == 1 && s[0] == '-')) {
				writeHexEscape(&b, r)
			} else {
				b.WriteRune(r)
			}
		case r == '-' || r == '_' || r >= 0x80,
			r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case isControl(r):
			writeHexEscape(&b, r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

// writeHexEscape writes r as a hex escape terminated by a space.
func writeHexEscape(b *strings.Builder, r rune) {
	b.WriteByte('\\')
	b.WriteString(strconv.FormatInt(int64(r), 16))
	b.WriteByte(' ')
}

// isControl returns true for characters that cannot appear unescaped.
func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// String returns the text form of n using the default configuration.
func String(n ast.Node) string {
	var p Printer
	var buf bytes.Buffer
	_ = p.Print(&buf, n)
	return buf.String()
}
