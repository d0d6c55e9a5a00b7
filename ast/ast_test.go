package ast

import (
	"reflect"
	"testing"
)

// Ensure that all nodes implement the Node interface.
func TestNode(t *testing.T) {
	var a []Node
	a = append(a, &Value{}, &Raw{}, &ParameterList{}, &ListItem{}, &List{})
	a = append(a, &Variable{}, &Operator{}, &Parenthesis{})
	a = append(a, &TypeSelector{}, &IdSelector{}, &ClassSelector{}, &AttributeSelector{})
	a = append(a, &PseudoClassSelector{}, &SelectorCombinator{}, &ComplexSelector{}, &SelectorList{})
	a = append(a, &Modifier{}, &ModifierList{}, &VendorSelector{}, &PreProcessorComment{})
	for _, n := range a {
		n.node()
		if n.Location() != nil {
			t.Errorf("%T: expected nil location", n)
		}
	}
}

// Ensure that all selectors implement the Selector interface.
func TestSelector(t *testing.T) {
	a := []Selector{&TypeSelector{}, &IdSelector{}, &ClassSelector{}, &AttributeSelector{}, &PseudoClassSelector{}, &SelectorCombinator{}}
	for _, s := range a {
		s.selector()
	}
}

// Ensure that all expressions implement the Expression interface.
func TestExpression(t *testing.T) {
	a := []Expression{&Variable{}, &Operator{}, &Parenthesis{}}
	for _, e := range a {
		e.expression()
	}
}

// Ensure that node locations can be retrieved.
func TestLocation(t *testing.T) {
	var tests = []struct {
		in  Node
		loc *Loc
	}{
		{in: &Value{Loc: NewLoc(1, 2)}, loc: &Loc{1, 2}},
		{in: &List{Loc: NewLoc(0, 10)}, loc: &Loc{0, 10}},
		{in: &SelectorList{Loc: NewLoc(3, 4)}, loc: &Loc{3, 4}},
		{in: &Operator{}, loc: nil},
	}

	for _, tt := range tests {
		if loc := tt.in.Location(); !reflect.DeepEqual(tt.loc, loc) {
			t.Errorf("expected: %#v, got: %#v", tt.loc, loc)
		}
	}
}

// Ensure that list types map onto their item types.
func TestListType_ItemType(t *testing.T) {
	var tests = []struct {
		list ListType
		item ListItemType
	}{
		{DomainList, Domain},
		{AppList, App},
		{MethodList, Method},
		{StealthOptionList, StealthOption},
	}

	for _, tt := range tests {
		if item := tt.list.ItemType(); item != tt.item {
			t.Errorf("%s: expected %s, got %s", tt.list, tt.item, item)
		}
	}
}

// Ensure that logical expressions are evaluated without short-circuiting.
func TestEvaluate(t *testing.T) {
	a := &Variable{Name: "a"}
	b := &Variable{Name: "b"}
	c := &Variable{Name: "c"}

	var tests = []struct {
		expr Expression
		vars map[string]bool
		exp  bool
	}{
		{expr: a, vars: map[string]bool{"a": true}, exp: true},
		{expr: a, vars: nil, exp: false},
		{expr: &Operator{Operator: Not, Left: a}, vars: nil, exp: true},
		{expr: &Operator{Operator: And, Left: a, Right: &Operator{Operator: Not, Left: b}}, vars: map[string]bool{"a": true, "b": false}, exp: true},
		{expr: &Operator{Operator: And, Left: &Parenthesis{Expression: &Operator{Operator: Or, Left: a, Right: b}}, Right: c}, vars: map[string]bool{"b": true, "c": true}, exp: true},
		{expr: &Operator{Operator: Or, Left: a, Right: b}, vars: map[string]bool{}, exp: false},
	}

	for i, tt := range tests {
		if v := Evaluate(tt.expr, tt.vars); v != tt.exp {
			t.Errorf("%d. expected %v, got %v", i, tt.exp, v)
		}
	}
}

// Ensure that variables are collected in pre-order.
func TestVariables(t *testing.T) {
	expr := &Operator{
		Operator: Or,
		Left:     &Operator{Operator: Not, Left: &Variable{Name: "x"}},
		Right: &Parenthesis{Expression: &Operator{
			Operator: And,
			Left:     &Variable{Name: "y"},
			Right:    &Variable{Name: "z"},
		}},
	}

	var names []string
	for _, v := range Variables(expr) {
		names = append(names, v.Name)
	}
	if exp := []string{"x", "y", "z"}; !reflect.DeepEqual(exp, names) {
		t.Errorf("expected %v, got %v", exp, names)
	}
}
