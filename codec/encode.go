// Package codec reads and writes syntax trees in a compact binary form.
package codec

import (
	"fmt"

	"github.com/filterlists/agtree/ast"
)

// Marshal returns the binary encoding of n.
func Marshal(n ast.Node) ([]byte, error) {
	out := NewOutputBuffer(64)
	if err := MarshalTo(out, n); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// MarshalTo appends the binary encoding of n to out. Several nodes may be
// written to the same buffer and read back in order with UnmarshalFrom.
func MarshalTo(out *OutputBuffer, n ast.Node) error {
	e := &encoder{out: out}
	return e.node(n, nil)
}

// encoder writes nodes to an output buffer.
type encoder struct {
	out *OutputBuffer
}

// node writes n. Table is the frequency table for the strings of values
// and modifier names in the current context.
func (e *encoder) node(n ast.Node, table *frequencyTable) error {
	switch n := n.(type) {
	case *ast.Value:
		if n == nil {
			break
		}
		e.begin(valueNode, n.Loc)
		e.str(valueProp, frequentValueProp, n.Value, table)
		return e.finish()

	case *ast.Raw:
		if n == nil {
			break
		}
		e.begin(rawNode, n.Loc)
		e.str(valueProp, 0, n.Value, nil)
		return e.finish()

	case *ast.ParameterList:
		if n == nil {
			break
		}
		e.begin(parameterListNode, n.Loc)
		e.count(childrenProp, len(n.Children))
		for _, v := range n.Children {
			if v == nil {
				e.out.WriteByte(null)
				continue
			}
			if err := e.node(v, nil); err != nil {
				return err
			}
		}
		return e.finish()

	case *ast.ListItem:
		if n == nil {
			break
		}
		e.begin(listItemNode, n.Loc)
		e.tag(typeProp)
		e.out.WriteByte(byte(n.Type))
		e.str(valueProp, 0, n.Value, nil)
		e.flag(exceptionProp, n.Exception)
		return e.finish()

	case *ast.List:
		if n == nil {
			break
		}
		e.begin(listNode, n.Loc)
		e.tag(typeProp)
		e.out.WriteByte(byte(n.Type))
		if i, ok := separators.lookup(string(n.Separator)); ok {
			e.tag(frequentSeparatorProp)
			e.out.WriteByte(i)
		} else {
			e.tag(separatorProp)
			e.out.WriteByte(n.Separator)
		}
		e.count(childrenProp, len(n.Children))
		for _, item := range n.Children {
			if err := e.node(item, nil); err != nil {
				return err
			}
		}
		return e.finish()

	case *ast.Variable:
		if n == nil {
			break
		}
		e.begin(variableNode, n.Loc)
		e.str(nameProp, frequentNameProp, n.Name, platforms)
		return e.finish()

	case *ast.Operator:
		if n == nil {
			break
		}
		e.begin(operatorNode, n.Loc)
		e.str(operatorProp, frequentOperatorProp, n.Operator, operators)
		if err := e.child(leftProp, n.Left, nil); err != nil {
			return err
		}
		if err := e.child(rightProp, n.Right, nil); err != nil {
			return err
		}
		return e.finish()

	case *ast.Parenthesis:
		if n == nil {
			break
		}
		e.begin(parenthesisNode, n.Loc)
		if err := e.child(expressionProp, n.Expression, nil); err != nil {
			return err
		}
		return e.finish()

	case *ast.TypeSelector:
		if n == nil {
			break
		}
		e.begin(typeSelectorNode, n.Loc)
		e.str(valueProp, 0, n.Value, nil)
		return e.finish()

	case *ast.IdSelector:
		if n == nil {
			break
		}
		e.begin(idSelectorNode, n.Loc)
		e.str(valueProp, 0, n.Value, nil)
		return e.finish()

	case *ast.ClassSelector:
		if n == nil {
			break
		}
		e.begin(classSelectorNode, n.Loc)
		e.str(valueProp, 0, n.Value, nil)
		return e.finish()

	case *ast.AttributeSelector:
		if n == nil {
			break
		}
		e.begin(attributeSelectorNode, n.Loc)
		e.str(nameProp, 0, n.Name, nil)
		if n.Operator != "" {
			e.str(operatorProp, frequentOperatorProp, n.Operator, attributeOperators)
			e.str(valueProp, 0, n.Value, nil)
		}
		if n.Flag != "" {
			e.str(flagProp, 0, n.Flag, nil)
		}
		return e.finish()

	case *ast.PseudoClassSelector:
		if n == nil {
			break
		}
		e.begin(pseudoClassSelectorNode, n.Loc)
		e.str(nameProp, frequentNameProp, n.Name, pseudoClasses)
		if n.Argument != nil {
			if err := e.child(argumentProp, n.Argument, nil); err != nil {
				return err
			}
		}
		return e.finish()

	case *ast.SelectorCombinator:
		if n == nil {
			break
		}
		e.begin(selectorCombinatorNode, n.Loc)
		e.str(valueProp, frequentValueProp, n.Value, combinators)
		return e.finish()

	case *ast.ComplexSelector:
		if n == nil {
			break
		}
		e.begin(complexSelectorNode, n.Loc)
		e.count(childrenProp, len(n.Children))
		for _, s := range n.Children {
			if err := e.node(s, nil); err != nil {
				return err
			}
		}
		return e.finish()

	case *ast.SelectorList:
		if n == nil {
			break
		}
		e.begin(selectorListNode, n.Loc)
		e.count(childrenProp, len(n.Children))
		for _, c := range n.Children {
			if err := e.node(c, nil); err != nil {
				return err
			}
		}
		return e.finish()

	case *ast.Modifier:
		if n == nil {
			break
		}
		if table == nil {
			table = networkModifiers
		}
		e.begin(modifierNode, n.Loc)
		if n.Name != nil {
			if err := e.child(nameProp, n.Name, table); err != nil {
				return err
			}
		}
		if n.Value != nil {
			if err := e.child(valueProp, n.Value, nil); err != nil {
				return err
			}
		}
		e.flag(exceptionProp, n.Exception)
		return e.finish()

	case *ast.ModifierList:
		if n == nil {
			break
		}
		if table == nil {
			table = networkModifiers
		}
		e.begin(modifierListNode, n.Loc)
		e.count(childrenProp, len(n.Children))
		for _, m := range n.Children {
			if err := e.node(m, table); err != nil {
				return err
			}
		}
		return e.finish()

	case *ast.VendorSelector:
		if n == nil {
			break
		}
		e.begin(vendorSelectorNode, n.Loc)
		if n.Selector != nil {
			if err := e.child(selectorProp, n.Selector, nil); err != nil {
				return err
			}
		}
		if n.Modifiers != nil {
			if err := e.child(modifiersProp, n.Modifiers, vendorModifiers); err != nil {
				return err
			}
		}
		return e.finish()

	case *ast.PreProcessorComment:
		if n == nil {
			break
		}
		e.begin(preProcessorCommentNode, n.Loc)
		if n.Name != nil {
			if err := e.child(nameProp, n.Name, directives); err != nil {
				return err
			}
		}
		if n.Params != nil {
			if err := e.child(paramsProp, n.Params, nil); err != nil {
				return err
			}
		}
		return e.finish()
	}

	return fmt.Errorf("%w: cannot encode %T", ErrUnknownNodeKind, n)
}

// begin writes the node kind and its location.
func (e *encoder) begin(kind byte, loc *ast.Loc) {
	e.out.WriteByte(kind)
	if loc != nil {
		e.tag(startProp)
		e.out.WriteUint32(uint32(loc.Start))
		e.tag(endProp)
		e.out.WriteUint32(uint32(loc.End))
	}
}

// finish terminates the current node.
func (e *encoder) finish() error {
	return e.out.WriteByte(null)
}

func (e *encoder) tag(tag byte) {
	e.out.WriteByte(tag)
}

// str writes s as a frequent value if table contains it, otherwise as a
// length prefixed string.
func (e *encoder) str(tag, frequentTag byte, s string, table *frequencyTable) {
	if i, ok := table.lookup(s); ok {
		e.tag(frequentTag)
		e.out.WriteByte(i)
		return
	}
	e.tag(tag)
	e.out.WriteString(s)
}

// flag writes tag only when v is set.
func (e *encoder) flag(tag byte, v bool) {
	if v {
		e.tag(tag)
		e.out.WriteByte(1)
	}
}

// count starts a child list of n nodes.
func (e *encoder) count(tag byte, n int) {
	e.tag(tag)
	e.out.WriteUint32(uint32(n))
}

// child writes a single child node. Nil interface values are omitted.
func (e *encoder) child(tag byte, n ast.Node, table *frequencyTable) error {
	if n == nil {
		return nil
	}
	e.tag(tag)
	return e.node(n, table)
}
