package parser

import (
	"fmt"

	"github.com/filterlists/agtree/ast"
)

// ParseParameterList parses separator delimited parameters. Empty slots
// become nil children. Separators inside a quoted or /regex/ parameter, or
// preceded by a backslash, do not split.
//
// A blank input yields no children; otherwise the number of children is the
// number of separators plus one.
func ParseParameterList(raw string, separator byte, opts Options) (*ast.ParameterList, error) {
	return parseParameterList(raw, separator, false, opts)
}

// ParseQuotedParameterList is like ParseParameterList but every non-empty
// parameter must be a quoted string. Quotes are kept in the values.
func ParseQuotedParameterList(raw string, separator byte, opts Options) (*ast.ParameterList, error) {
	return parseParameterList(raw, separator, true, opts)
}

func parseParameterList(raw string, sep byte, requireQuotes bool, opts Options) (*ast.ParameterList, error) {
	list := &ast.ParameterList{Loc: opts.loc(0, len(raw))}

	if skipWS(raw, 0) == len(raw) {
		return list, nil
	}

	offset := 0
	for {
		offset = skipSpace(raw, offset, sep)

		// A separator was the last non-whitespace character.
		if offset == len(raw) {
			list.Children = append(list.Children, nil)
			break
		}

		// Empty slot between two separators.
		if raw[offset] == sep {
			list.Children = append(list.Children, nil)
			offset++
			continue
		}

		var end, next int
		if requireQuotes {
			quote := raw[offset]
			if !isQuote(quote) {
				return nil, newError(ErrExpectedQuote, fmt.Sprintf("Expected quote, but got %q", raw[offset]), opts.BaseOffset, offset, offset+1)
			}
			closing := findNextUnescaped(raw, quote, offset+1)
			if closing == -1 {
				return nil, newError(ErrExpectedClosingQuote, fmt.Sprintf("Expected closing quote %q", quote), opts.BaseOffset, offset, len(raw))
			}
			end = closing + 1

			next = skipSpace(raw, end, sep)
			if next == len(raw) {
				next = -1
			} else if raw[next] != sep {
				return nil, newError(ErrExpectedSeparator, fmt.Sprintf("Expected separator %q, but got %q", sep, raw[next]), opts.BaseOffset, next, next+1)
			}
		} else {
			next = findNextParameterSeparator(raw, sep, offset)
			stop := next
			if next == -1 {
				stop = len(raw)
			}
			end = skipWSBack(raw, stop-1) + 1
		}

		list.Children = append(list.Children, &ast.Value{
			Value: raw[offset:end],
			Loc:   opts.loc(offset, end),
		})

		if next == -1 {
			break
		}
		offset = next + 1
	}

	return list, nil
}

// findNextParameterSeparator returns the index of the next separator
// that ends the parameter starting at start, or -1. A parameter starting
// with a quote or a slash runs at least until the matching closing quote or
// slash.
func findNextParameterSeparator(s string, sep byte, start int) int {
	var closer byte
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == escapeChar:
			i++
		case closer != 0:
			if ch == closer {
				closer = 0
			}
		case i == start && (isQuote(ch) || ch == '/'):
			closer = ch
		case ch == sep:
			return i
		}
	}
	return -1
}

// skipSpace is like skipWS but stops at sep, so that whitespace can be used
// as a separator.
func skipSpace(s string, i int, sep byte) int {
	for i < len(s) && s[i] != sep && isWhitespace(s[i]) {
		i++
	}
	return i
}
