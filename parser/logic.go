package parser

import (
	"fmt"

	"github.com/filterlists/agtree/ast"
)

// exprKind is the kind of a logical expression token.
type exprKind int

const (
	exprVariable exprKind = iota
	exprOperator
	exprParenthesis
)

// exprToken is a token of a logical expression.
// Start and End are relative to the parsed text.
type exprToken struct {
	kind  exprKind
	value string
	start int
	end   int
}

// precedence maps binary and unary operators to their binding power.
var precedence = map[string]int{
	ast.Not: 3,
	ast.And: 2,
	ast.Or:  1,
}

// tokenizeExpression splits raw into variables, operators and parentheses.
func tokenizeExpression(raw string, opts Options) ([]exprToken, error) {
	var tokens []exprToken
	for i := 0; i < len(raw); {
		ch := raw[i]
		switch {
		case isWhitespace(ch):
			i++
		case isLetter(ch):
			start := i
			for i < len(raw) && (isLetter(raw[i]) || isDigit(raw[i]) || raw[i] == '_') {
				i++
			}
			tokens = append(tokens, exprToken{kind: exprVariable, value: raw[start:i], start: start, end: i})
		case ch == '(' || ch == ')':
			tokens = append(tokens, exprToken{kind: exprParenthesis, value: raw[i : i+1], start: i, end: i + 1})
			i++
		case ch == '!':
			tokens = append(tokens, exprToken{kind: exprOperator, value: ast.Not, start: i, end: i + 1})
			i++
		case (ch == '&' || ch == '|') && i+1 < len(raw) && raw[i+1] == ch:
			tokens = append(tokens, exprToken{kind: exprOperator, value: raw[i : i+2], start: i, end: i + 2})
			i += 2
		default:
			return nil, newError(ErrUnexpectedCharacter, fmt.Sprintf("Unexpected character %q", ch), opts.BaseOffset, i, i+1)
		}
	}
	return tokens, nil
}

// exprParser is a precedence climbing parser over expression tokens.
type exprParser struct {
	raw    string
	tokens []exprToken
	i      int
	opts   Options
}

// ParseLogicalExpression parses a boolean expression made of identifiers,
// "!", "&&", "||" and parentheses.
func ParseLogicalExpression(raw string, opts Options) (ast.Expression, error) {
	tokens, err := tokenizeExpression(raw, opts)
	if err != nil {
		return nil, err
	}

	p := &exprParser{raw: raw, tokens: tokens, opts: opts}
	expr, _, _, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	// The whole input must be reduced to a single expression.
	if p.i < len(p.tokens) {
		tok := p.tokens[p.i]
		return nil, newError(ErrUnexpectedToken, fmt.Sprintf("Unexpected token %q", tok.value), opts.BaseOffset, tok.start, tok.end)
	}
	return expr, nil
}

// parseExpression parses an operand followed by binary operators binding at
// least as tightly as minPrecedence. It returns the relative range of the
// parsed expression.
func (p *exprParser) parseExpression(minPrecedence int) (ast.Expression, int, int, error) {
	left, start, end, err := p.parseUnary()
	if err != nil {
		return nil, 0, 0, err
	}

	for p.i < len(p.tokens) {
		tok := p.tokens[p.i]
		if tok.kind != exprOperator || tok.value == ast.Not {
			break
		}
		prec := precedence[tok.value]
		if prec < minPrecedence {
			break
		}
		p.i++

		right, _, rightEnd, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, 0, 0, err
		}
		end = rightEnd
		left = &ast.Operator{Operator: tok.value, Left: left, Right: right, Loc: p.opts.loc(start, end)}
	}
	return left, start, end, nil
}

// parseUnary parses a negation, a parenthesized expression or a variable.
func (p *exprParser) parseUnary() (ast.Expression, int, int, error) {
	if p.i >= len(p.tokens) {
		n := len(p.raw)
		return nil, 0, 0, newError(ErrUnexpectedEndOfInput, "Unexpected end of expression", p.opts.BaseOffset, n, n)
	}

	tok := p.tokens[p.i]
	switch {
	case tok.kind == exprVariable:
		p.i++
		return &ast.Variable{Name: tok.value, Loc: p.opts.loc(tok.start, tok.end)}, tok.start, tok.end, nil

	case tok.kind == exprOperator && tok.value == ast.Not:
		p.i++
		operand, _, end, err := p.parseUnary()
		if err != nil {
			return nil, 0, 0, err
		}
		return &ast.Operator{Operator: ast.Not, Left: operand, Loc: p.opts.loc(tok.start, end)}, tok.start, end, nil

	case tok.kind == exprParenthesis && tok.value == "(":
		p.i++
		inner, _, _, err := p.parseExpression(0)
		if err != nil {
			return nil, 0, 0, err
		}
		if p.i >= len(p.tokens) || p.tokens[p.i].value != ")" {
			return nil, 0, 0, newError(ErrExpectedClosingParenthesis, "Expected closing parenthesis", p.opts.BaseOffset, tok.start, len(p.raw))
		}
		closing := p.tokens[p.i]
		p.i++
		return &ast.Parenthesis{Expression: inner, Loc: p.opts.loc(tok.start, closing.end)}, tok.start, closing.end, nil
	}

	return nil, 0, 0, newError(ErrUnexpectedToken, fmt.Sprintf("Unexpected token %q", tok.value), p.opts.BaseOffset, tok.start, tok.end)
}
