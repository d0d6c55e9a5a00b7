package parser

import (
	"fmt"
	"strings"

	"github.com/filterlists/agtree/ast"
)

// PreProcessorMarker starts every preprocessor directive.
const PreProcessorMarker = "!#"

// Preprocessor directives with a dedicated parameter syntax.
const (
	IfDirective               = "if"
	ElseDirective             = "else"
	EndIfDirective            = "endif"
	IncludeDirective          = "include"
	SafariCbAffinityDirective = "safari_cb_affinity"
)

// ParsePreProcessorComment parses a directive such as "!#if (adguard_ext_chromium)"
// or "!#include https://example.org/filter.txt". The parameter node depends on
// the directive: an expression for if, a value for include, a parameter list
// for safari_cb_affinity and raw text for unknown directives.
func ParsePreProcessorComment(raw string, opts Options) (*ast.PreProcessorComment, error) {
	start := skipWS(raw, 0)
	if !strings.HasPrefix(raw[start:], PreProcessorMarker) {
		end := start + len(PreProcessorMarker)
		if end > len(raw) {
			end = len(raw)
		}
		return nil, newError(ErrUnexpectedToken, fmt.Sprintf("Expected %q at the beginning of the directive", PreProcessorMarker), opts.BaseOffset, start, end)
	}
	end := skipWSBack(raw, len(raw)-1) + 1

	nameStart := start + len(PreProcessorMarker)
	nameEnd := nameStart
	for nameEnd < end && !isWhitespace(raw[nameEnd]) && raw[nameEnd] != '(' {
		nameEnd++
	}
	if nameEnd == nameStart {
		return nil, newError(ErrUnexpectedToken, "Directive name cannot be empty", opts.BaseOffset, start, nameStart)
	}

	node := &ast.PreProcessorComment{
		Name: &ast.Value{Value: raw[nameStart:nameEnd], Loc: opts.loc(nameStart, nameEnd)},
		Loc:  opts.loc(start, end),
	}

	paramsStart := skipWS(raw, nameEnd)
	switch node.Name.Value {
	case IfDirective:
		if paramsStart >= end {
			return nil, newError(ErrUnexpectedEndOfInput, "Directive \"if\" requires an expression", opts.BaseOffset, nameEnd, end)
		}
		expr, err := ParseLogicalExpression(raw[paramsStart:end], opts.shift(paramsStart))
		if err != nil {
			return nil, err
		}
		node.Params = expr

	case IncludeDirective:
		if paramsStart >= end {
			return nil, newError(ErrUnexpectedEndOfInput, "Directive \"include\" requires a URL", opts.BaseOffset, nameEnd, end)
		}
		node.Params = &ast.Value{Value: raw[paramsStart:end], Loc: opts.loc(paramsStart, end)}

	case SafariCbAffinityDirective:
		if paramsStart >= end {
			break
		}
		if raw[paramsStart] != '(' {
			return nil, newError(ErrUnexpectedToken, fmt.Sprintf("Expected '(' after %q, but got %q", node.Name.Value, raw[paramsStart]), opts.BaseOffset, paramsStart, paramsStart+1)
		}
		if raw[end-1] != ')' {
			return nil, newError(ErrExpectedClosingParenthesis, "Expected closing parenthesis", opts.BaseOffset, paramsStart, end)
		}
		params, err := ParseParameterList(raw[paramsStart+1:end-1], CommaSeparator, opts.shift(paramsStart+1))
		if err != nil {
			return nil, err
		}
		node.Params = params

	case ElseDirective, EndIfDirective:
		if paramsStart < end {
			return nil, newError(ErrUnexpectedToken, fmt.Sprintf("Directive %q does not take parameters", node.Name.Value), opts.BaseOffset, paramsStart, end)
		}

	default:
		if paramsStart < end {
			node.Params = &ast.Raw{Value: raw[paramsStart:end], Loc: opts.loc(paramsStart, end)}
		}
	}

	return node, nil
}
