package ast

// Selector represents a simple selector or a combinator inside a complex
// selector.
type Selector interface {
	Node
	selector()
}

func (_ *TypeSelector) selector()        {}
func (_ *IdSelector) selector()          {}
func (_ *ClassSelector) selector()       {}
func (_ *AttributeSelector) selector()   {}
func (_ *PseudoClassSelector) selector() {}
func (_ *SelectorCombinator) selector()  {}

// TypeSelector represents an element name or the universal selector "*".
type TypeSelector struct {
	Value string
	Loc   *Loc
}

func (n *TypeSelector) Location() *Loc { return n.Loc }

// UniversalSelector is the value of a type selector matching any element.
const UniversalSelector = "*"

// IdSelector represents "#id". Value does not include the hash.
type IdSelector struct {
	Value string
	Loc   *Loc
}

func (n *IdSelector) Location() *Loc { return n.Loc }

// ClassSelector represents ".class". Value does not include the dot.
type ClassSelector struct {
	Value string
	Loc   *Loc
}

func (n *ClassSelector) Location() *Loc { return n.Loc }

// AttributeSelector represents "[name]" or "[name op value flag]".
// Operator is empty for a presence check; Value holds the unquoted,
// unescaped value and Flag the optional "i" or "s" modifier.
type AttributeSelector struct {
	Name     string
	Operator string
	Value    string
	Flag     string
	Loc      *Loc
}

func (n *AttributeSelector) Location() *Loc { return n.Loc }

// PseudoClassSelector represents ":name" or ":name(argument)".
type PseudoClassSelector struct {
	Name     string
	Argument *Value
	Loc      *Loc
}

func (n *PseudoClassSelector) Location() *Loc { return n.Loc }

// SelectorCombinator represents one of " ", ">", "+" or "~".
type SelectorCombinator struct {
	Value string
	Loc   *Loc
}

func (n *SelectorCombinator) Location() *Loc { return n.Loc }

// Combinator values.
const (
	DescendantCombinator        = " "
	ChildCombinator             = ">"
	NextSiblingCombinator       = "+"
	SubsequentSiblingCombinator = "~"
)

// ComplexSelector represents compound selectors joined by combinators.
type ComplexSelector struct {
	Children []Selector
	Loc      *Loc
}

func (n *ComplexSelector) Location() *Loc { return n.Loc }

// SelectorList represents comma separated complex selectors.
type SelectorList struct {
	Children []*ComplexSelector
	Loc      *Loc
}

func (n *SelectorList) Location() *Loc { return n.Loc }
