package codec

import (
	"fmt"

	"github.com/filterlists/agtree/ast"
)

// Unmarshal decodes a single node from data. The whole input must be
// consumed.
func Unmarshal(data []byte) (ast.Node, error) {
	in := NewInputBuffer(data)
	n, err := UnmarshalFrom(in)
	if err != nil {
		return nil, err
	}
	if in.Remaining() > 0 {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", ErrTrailingData, in.Remaining(), in.Offset())
	}
	return n, nil
}

// UnmarshalFrom decodes the next node from in.
func UnmarshalFrom(in *InputBuffer) (ast.Node, error) {
	d := &decoder{in: in}
	return d.node(nil)
}

// decoder reads nodes from an input buffer.
type decoder struct {
	in *InputBuffer
}

// node reads the next node. Table must match the one used for encoding.
func (d *decoder) node(table *frequencyTable) (ast.Node, error) {
	offset := d.in.Offset()
	kind, err := d.in.ReadByte()
	if err != nil {
		return nil, err
	}

	switch kind {
	case valueNode:
		n := &ast.Value{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case valueProp, frequentValueProp:
				n.Value, err = d.str(tag, frequentValueProp, table)
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case rawNode:
		n := &ast.Raw{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case valueProp:
				n.Value, err = d.in.ReadString()
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case parameterListNode:
		n := &ast.ParameterList{}
		return n, d.props(&n.Loc, func(tag byte) error {
			if tag != childrenProp {
				return d.unknownProp(tag, kind)
			}
			return d.children(func() error {
				if c, err := d.in.PeekByte(); err != nil {
					return err
				} else if c == null {
					_, _ = d.in.ReadByte()
					n.Children = append(n.Children, nil)
					return nil
				}
				v, err := decodeAs[*ast.Value](d, nil)
				n.Children = append(n.Children, v)
				return err
			})
		})

	case listItemNode:
		n := &ast.ListItem{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case typeProp:
				var b byte
				b, err = d.in.ReadByte()
				n.Type = ast.ListItemType(b)
			case valueProp:
				n.Value, err = d.in.ReadString()
			case exceptionProp:
				n.Exception, err = d.flag()
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case listNode:
		n := &ast.List{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case typeProp:
				var b byte
				b, err = d.in.ReadByte()
				n.Type = ast.ListType(b)
			case separatorProp:
				n.Separator, err = d.in.ReadByte()
			case frequentSeparatorProp:
				var s string
				if s, err = d.str(tag, frequentSeparatorProp, separators); err == nil {
					n.Separator = s[0]
				}
			case childrenProp:
				return d.children(func() error {
					item, err := decodeAs[*ast.ListItem](d, nil)
					n.Children = append(n.Children, item)
					return err
				})
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case variableNode:
		n := &ast.Variable{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case nameProp, frequentNameProp:
				n.Name, err = d.str(tag, frequentNameProp, platforms)
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case operatorNode:
		n := &ast.Operator{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case operatorProp, frequentOperatorProp:
				n.Operator, err = d.str(tag, frequentOperatorProp, operators)
			case leftProp:
				n.Left, err = decodeAs[ast.Expression](d, nil)
			case rightProp:
				n.Right, err = decodeAs[ast.Expression](d, nil)
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case parenthesisNode:
		n := &ast.Parenthesis{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case expressionProp:
				n.Expression, err = decodeAs[ast.Expression](d, nil)
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case typeSelectorNode:
		n := &ast.TypeSelector{}
		return n, d.props(&n.Loc, d.stringProp(kind, &n.Value))

	case idSelectorNode:
		n := &ast.IdSelector{}
		return n, d.props(&n.Loc, d.stringProp(kind, &n.Value))

	case classSelectorNode:
		n := &ast.ClassSelector{}
		return n, d.props(&n.Loc, d.stringProp(kind, &n.Value))

	case attributeSelectorNode:
		n := &ast.AttributeSelector{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case nameProp:
				n.Name, err = d.in.ReadString()
			case operatorProp, frequentOperatorProp:
				n.Operator, err = d.str(tag, frequentOperatorProp, attributeOperators)
			case valueProp:
				n.Value, err = d.in.ReadString()
			case flagProp:
				n.Flag, err = d.in.ReadString()
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case pseudoClassSelectorNode:
		n := &ast.PseudoClassSelector{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case nameProp, frequentNameProp:
				n.Name, err = d.str(tag, frequentNameProp, pseudoClasses)
			case argumentProp:
				n.Argument, err = decodeAs[*ast.Value](d, nil)
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case selectorCombinatorNode:
		n := &ast.SelectorCombinator{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case valueProp, frequentValueProp:
				n.Value, err = d.str(tag, frequentValueProp, combinators)
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case complexSelectorNode:
		n := &ast.ComplexSelector{}
		return n, d.props(&n.Loc, func(tag byte) error {
			if tag != childrenProp {
				return d.unknownProp(tag, kind)
			}
			return d.children(func() error {
				s, err := decodeAs[ast.Selector](d, nil)
				n.Children = append(n.Children, s)
				return err
			})
		})

	case selectorListNode:
		n := &ast.SelectorList{}
		return n, d.props(&n.Loc, func(tag byte) error {
			if tag != childrenProp {
				return d.unknownProp(tag, kind)
			}
			return d.children(func() error {
				c, err := decodeAs[*ast.ComplexSelector](d, nil)
				n.Children = append(n.Children, c)
				return err
			})
		})

	case modifierNode:
		if table == nil {
			table = networkModifiers
		}
		n := &ast.Modifier{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case nameProp:
				n.Name, err = decodeAs[*ast.Value](d, table)
			case valueProp:
				n.Value, err = decodeAs[*ast.Value](d, nil)
			case exceptionProp:
				n.Exception, err = d.flag()
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case modifierListNode:
		if table == nil {
			table = networkModifiers
		}
		n := &ast.ModifierList{}
		return n, d.props(&n.Loc, func(tag byte) error {
			if tag != childrenProp {
				return d.unknownProp(tag, kind)
			}
			return d.children(func() error {
				m, err := decodeAs[*ast.Modifier](d, table)
				n.Children = append(n.Children, m)
				return err
			})
		})

	case vendorSelectorNode:
		n := &ast.VendorSelector{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case selectorProp:
				n.Selector, err = decodeAs[*ast.Value](d, nil)
			case modifiersProp:
				n.Modifiers, err = decodeAs[*ast.ModifierList](d, vendorModifiers)
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})

	case preProcessorCommentNode:
		n := &ast.PreProcessorComment{}
		return n, d.props(&n.Loc, func(tag byte) (err error) {
			switch tag {
			case nameProp:
				n.Name, err = decodeAs[*ast.Value](d, directives)
			case paramsProp:
				n.Params, err = d.node(nil)
			default:
				return d.unknownProp(tag, kind)
			}
			return err
		})
	}

	return nil, fmt.Errorf("%w: 0x%02x at offset %d", ErrUnknownNodeKind, kind, offset)
}

// decodeAs reads the next node and checks that it has type T.
func decodeAs[T ast.Node](d *decoder, table *frequencyTable) (T, error) {
	var zero T
	offset := d.in.Offset()
	n, err := d.node(table)
	if err != nil {
		return zero, err
	}
	v, ok := n.(T)
	if !ok {
		return zero, fmt.Errorf("%w: unexpected %T at offset %d, expected %T", ErrUnknownNodeKind, n, offset, zero)
	}
	return v, nil
}

// props reads properties until the null terminator. Locations are handled
// here, every other tag is passed to fn.
func (d *decoder) props(loc **ast.Loc, fn func(tag byte) error) error {
	for {
		tag, err := d.in.ReadByte()
		if err != nil {
			return err
		}

		switch tag {
		case null:
			return nil
		case startProp, endProp:
			v, err := d.in.ReadUint32()
			if err != nil {
				return err
			}
			if *loc == nil {
				*loc = &ast.Loc{}
			}
			if tag == startProp {
				(*loc).Start = int(v)
			} else {
				(*loc).End = int(v)
			}
		default:
			if err := fn(tag); err != nil {
				return err
			}
		}
	}
}

// stringProp returns a property reader for nodes with a single string value.
func (d *decoder) stringProp(kind byte, dst *string) func(tag byte) error {
	return func(tag byte) (err error) {
		if tag != valueProp {
			return d.unknownProp(tag, kind)
		}
		*dst, err = d.in.ReadString()
		return err
	}
}

// str reads a string property. A frequent tag is resolved in table.
func (d *decoder) str(tag, frequentTag byte, table *frequencyTable) (string, error) {
	if tag != frequentTag {
		return d.in.ReadString()
	}
	offset := d.in.Offset()
	i, err := d.in.ReadByte()
	if err != nil {
		return "", err
	}
	s, ok := table.value(i)
	if !ok {
		return "", fmt.Errorf("%w: index %d at offset %d", ErrInvalidFrequentValue, i, offset)
	}
	return s, nil
}

// flag reads a boolean property.
func (d *decoder) flag() (bool, error) {
	b, err := d.in.ReadByte()
	return b != 0, err
}

// children reads a child count and calls fn once per child.
func (d *decoder) children(fn func() error) error {
	n, err := d.in.ReadUint32()
	if err != nil {
		return err
	}
	// Every child takes at least one byte.
	if uint64(n) > uint64(d.in.Remaining()) {
		return fmt.Errorf("%w: %d children at offset %d", ErrUnexpectedEOF, n, d.in.Offset())
	}
	for i := uint32(0); i < n; i++ {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) unknownProp(tag, kind byte) error {
	return fmt.Errorf("%w: 0x%02x for node kind 0x%02x at offset %d", ErrUnknownPropertyTag, tag, kind, d.in.Offset()-1)
}
