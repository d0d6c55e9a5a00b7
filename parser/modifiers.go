package parser

import (
	"fmt"

	"github.com/filterlists/agtree/ast"
)

const (
	modifierSeparator      = ','
	modifierValueSeparator = '='
)

// ParseModifierList parses the comma separated options of a network rule,
// such as "third-party,~script,domain=example.com". Every item has the form
// [~]name[=value]. Separators may be escaped with a backslash.
func ParseModifierList(raw string, opts Options) (*ast.ModifierList, error) {
	list := &ast.ModifierList{Loc: opts.loc(0, len(raw))}

	offset := skipWS(raw, 0)
	if offset == len(raw) {
		return list, nil
	}
	if raw[offset] == modifierSeparator {
		return nil, newError(ErrLeadingSeparator, fmt.Sprintf("Unexpected separator %q at the beginning of the list", modifierSeparator), opts.BaseOffset, offset, offset+1)
	}

	for offset < len(raw) {
		offset = skipWS(raw, offset)
		if offset == len(raw) {
			break
		}

		next := findNextUnescaped(raw, modifierSeparator, offset)
		stop := next
		if next == -1 {
			stop = len(raw)
		}

		mod, err := parseModifier(raw, offset, stop, opts)
		if err != nil {
			return nil, err
		}
		list.Children = append(list.Children, mod)

		if next == -1 {
			break
		}
		offset = next + 1
	}

	if last := skipWSBack(raw, len(raw)-1); raw[last] == modifierSeparator && !isEscaped(raw, last) {
		return nil, newError(ErrTrailingSeparator, fmt.Sprintf("Unexpected separator %q at the end of the list", modifierSeparator), opts.BaseOffset, last, last+1)
	}

	return list, nil
}

// parseModifier parses raw[start:stop] as a single modifier.
func parseModifier(raw string, start, stop int, opts Options) (*ast.Modifier, error) {
	end := skipWSBack(raw, stop-1) + 1
	if end <= start {
		return nil, newError(ErrEmptyListItem, "Empty modifier", opts.BaseOffset, start, stop)
	}

	mod := &ast.Modifier{Loc: opts.loc(start, end)}

	nameStart := start
	if raw[nameStart] == negationMarker {
		mod.Exception = true
		nameStart = skipWS(raw, nameStart+1)
	}

	assign := findNextUnescaped(raw[:end], modifierValueSeparator, nameStart)
	nameEnd := end
	if assign != -1 {
		nameEnd = assign
	}
	nameEnd = skipWSBack(raw, nameEnd-1) + 1
	if nameEnd <= nameStart {
		return nil, newError(ErrEmptyModifierName, "Modifier name cannot be empty", opts.BaseOffset, start, end)
	}
	mod.Name = &ast.Value{Value: raw[nameStart:nameEnd], Loc: opts.loc(nameStart, nameEnd)}

	if assign != -1 {
		valueStart := skipWS(raw, assign+1)
		if valueStart >= end {
			return nil, newError(ErrEmptyModifierValue, fmt.Sprintf("Value of modifier %q cannot be empty", mod.Name.Value), opts.BaseOffset, start, end)
		}
		mod.Value = &ast.Value{Value: raw[valueStart:end], Loc: opts.loc(valueStart, end)}
	}

	return mod, nil
}
