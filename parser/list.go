package parser

import (
	"fmt"

	"github.com/filterlists/agtree/ast"
)

// negationMarker marks a list item or modifier as an exception.
const negationMarker = '~'

// Default list separators.
const (
	CommaSeparator = ','
	PipeSeparator  = '|'
)

// ParseDomainList parses a domain list such as "example.com,~example.org".
// Separator is ',' for cosmetic rules and '|' for the domain modifier.
func ParseDomainList(raw string, separator byte, opts Options) (*ast.List, error) {
	return ParseList(raw, separator, ast.DomainList, opts)
}

// ParseAppList parses a pipe separated app list.
func ParseAppList(raw string, opts Options) (*ast.List, error) {
	return ParseList(raw, PipeSeparator, ast.AppList, opts)
}

// ParseMethodList parses a pipe separated HTTP method list.
func ParseMethodList(raw string, opts Options) (*ast.List, error) {
	return ParseList(raw, PipeSeparator, ast.MethodList, opts)
}

// ParseStealthOptionList parses a pipe separated stealth option list.
func ParseStealthOptionList(raw string, opts Options) (*ast.List, error) {
	return ParseList(raw, PipeSeparator, ast.StealthOptionList, opts)
}

// ParseList parses a delimited list of possibly negated items.
// A blank input yields an empty list.
func ParseList(raw string, separator byte, typ ast.ListType, opts Options) (*ast.List, error) {
	items, err := parseListItems(raw, separator, typ.ItemType(), opts)
	if err != nil {
		return nil, err
	}
	return &ast.List{
		Type:      typ,
		Separator: separator,
		Children:  items,
		Loc:       opts.loc(0, len(raw)),
	}, nil
}

// parseListItems splits raw on unescaped separators.
func parseListItems(raw string, sep byte, typ ast.ListItemType, opts Options) ([]*ast.ListItem, error) {
	offset := skipWS(raw, 0)
	if offset == len(raw) {
		return nil, nil
	}

	// Check the first separator.
	if raw[offset] == sep {
		return nil, newError(ErrLeadingSeparator, fmt.Sprintf("Unexpected separator %q at the beginning of the list", sep), opts.BaseOffset, offset, offset+1)
	}

	var items []*ast.ListItem
	for offset < len(raw) {
		offset = skipWS(raw, offset)
		if offset == len(raw) {
			break
		}
		start := offset

		// Find the end of the item, excluding trailing whitespace.
		next := findNextUnescaped(raw, sep, offset)
		stop := next
		if next == -1 {
			stop = len(raw)
		}
		end := skipWSBack(raw, stop-1) + 1
		if end < start {
			end = start
		}

		itemStart, exception := start, false
		if itemStart < len(raw) && raw[itemStart] == negationMarker {
			exception = true
			itemStart++
			if itemStart < len(raw) {
				switch ch := raw[itemStart]; {
				case ch == negationMarker:
					return nil, newError(ErrDoubleNegation, "Negation marker cannot be followed by another negation marker", opts.BaseOffset, start, itemStart+1)
				case ch == sep:
					return nil, newError(ErrNegationFollowedBySeparator, "Negation marker cannot be followed by a separator", opts.BaseOffset, start, itemStart+1)
				case isWhitespace(ch):
					return nil, newError(ErrNegationFollowedByWhitespace, "Negation marker cannot be followed by whitespace", opts.BaseOffset, start, itemStart+1)
				}
			}
		}

		if itemStart >= end {
			return nil, newError(ErrEmptyListItem, "Empty list item", opts.BaseOffset, start, stop)
		}

		items = append(items, &ast.ListItem{
			Type:      typ,
			Value:     raw[itemStart:end],
			Exception: exception,
			Loc:       opts.loc(start, end),
		})

		if next == -1 {
			break
		}
		offset = next + 1
	}

	// Check the last separator.
	if last := skipWSBack(raw, len(raw)-1); raw[last] == sep && !isEscaped(raw, last) {
		return nil, newError(ErrTrailingSeparator, fmt.Sprintf("Unexpected separator %q at the end of the list", sep), opts.BaseOffset, last, last+1)
	}

	return items, nil
}
