package ast

// Expression represents a node of a logical expression.
type Expression interface {
	Node
	expression()
}

func (_ *Variable) expression()    {}
func (_ *Operator) expression()    {}
func (_ *Parenthesis) expression() {}

// Logical operators.
const (
	Not = "!"
	And = "&&"
	Or  = "||"
)

// Variable represents an identifier, such as a platform name.
type Variable struct {
	Name string
	Loc  *Loc
}

func (n *Variable) Location() *Loc { return n.Loc }

// Operator represents a unary "!" or a binary "&&" / "||" operation.
// Right is nil for "!".
type Operator struct {
	Operator string
	Left     Expression
	Right    Expression
	Loc      *Loc
}

func (n *Operator) Location() *Loc { return n.Loc }

// Parenthesis represents a parenthesized expression.
type Parenthesis struct {
	Expression Expression
	Loc        *Loc
}

func (n *Parenthesis) Location() *Loc { return n.Loc }

// Evaluate resolves expr against vars. Unknown variables are false.
//
// Both operands of a binary operator are always evaluated.
func Evaluate(expr Expression, vars map[string]bool) bool {
	switch n := expr.(type) {
	case *Variable:
		return vars[n.Name]
	case *Parenthesis:
		return Evaluate(n.Expression, vars)
	case *Operator:
		left := Evaluate(n.Left, vars)
		if n.Operator == Not {
			return !left
		}
		right := Evaluate(n.Right, vars)
		switch n.Operator {
		case And:
			return left && right
		case Or:
			return left || right
		}
	}
	return false
}

// Variables returns every variable of expr in pre-order.
func Variables(expr Expression) []*Variable {
	var a []*Variable
	walkVariables(expr, &a)
	return a
}

func walkVariables(expr Expression, a *[]*Variable) {
	switch n := expr.(type) {
	case *Variable:
		*a = append(*a, n)
	case *Parenthesis:
		walkVariables(n.Expression, a)
	case *Operator:
		walkVariables(n.Left, a)
		if n.Right != nil {
			walkVariables(n.Right, a)
		}
	}
}
