package ast

// Node represents a node in the filter rule syntax tree.
type Node interface {
	node()
	Location() *Loc
}

func (_ *Value) node()               {}
func (_ *Raw) node()                 {}
func (_ *ParameterList) node()       {}
func (_ *ListItem) node()            {}
func (_ *List) node()                {}
func (_ *Variable) node()            {}
func (_ *Operator) node()            {}
func (_ *Parenthesis) node()         {}
func (_ *TypeSelector) node()        {}
func (_ *IdSelector) node()          {}
func (_ *ClassSelector) node()       {}
func (_ *AttributeSelector) node()   {}
func (_ *PseudoClassSelector) node() {}
func (_ *SelectorCombinator) node()  {}
func (_ *ComplexSelector) node()     {}
func (_ *SelectorList) node()        {}
func (_ *Modifier) node()            {}
func (_ *ModifierList) node()        {}
func (_ *VendorSelector) node()      {}
func (_ *PreProcessorComment) node() {}

// Loc is the absolute source range of a node.
// Nodes carry a nil Loc when locations were not requested at parse time.
type Loc struct {
	Start int
	End   int
}

// NewLoc returns a location for the given range.
func NewLoc(start, end int) *Loc {
	return &Loc{Start: start, End: end}
}

// Value represents a plain string value.
type Value struct {
	Value string
	Loc   *Loc
}

func (n *Value) Location() *Loc { return n.Loc }

// Raw represents text passed through without further parsing.
type Raw struct {
	Value string
	Loc   *Loc
}

func (n *Raw) Location() *Loc { return n.Loc }

// ParameterList represents a list of parameters.
// A nil child is an empty slot between two separators.
type ParameterList struct {
	Children []*Value
	Loc      *Loc
}

func (n *ParameterList) Location() *Loc { return n.Loc }

// ListType identifies the kind of a delimited list.
type ListType uint8

const (
	DomainList ListType = iota + 1
	AppList
	MethodList
	StealthOptionList
)

var listTypes = [...]string{
	DomainList:        "DomainList",
	AppList:           "AppList",
	MethodList:        "MethodList",
	StealthOptionList: "StealthOptionList",
}

// String returns the name of the list type.
func (t ListType) String() string {
	if int(t) < len(listTypes) {
		return listTypes[t]
	}
	return ""
}

// ItemType returns the type of the items held by a list of type t.
func (t ListType) ItemType() ListItemType {
	return ListItemType(t)
}

// ListItemType identifies the kind of a list item.
type ListItemType uint8

const (
	Domain ListItemType = iota + 1
	App
	Method
	StealthOption
)

var listItemTypes = [...]string{
	Domain:        "Domain",
	App:           "App",
	Method:        "Method",
	StealthOption: "StealthOption",
}

// String returns the name of the list item type.
func (t ListItemType) String() string {
	if int(t) < len(listItemTypes) {
		return listItemTypes[t]
	}
	return ""
}

// ListItem represents a single item of a delimited list.
// Exception is set when the item was prefixed with the negation marker.
type ListItem struct {
	Type      ListItemType
	Value     string
	Exception bool
	Loc       *Loc
}

func (n *ListItem) Location() *Loc { return n.Loc }

// List represents a domain, app, method or stealth option list.
type List struct {
	Type      ListType
	Separator byte
	Children  []*ListItem
	Loc       *Loc
}

func (n *List) Location() *Loc { return n.Loc }

// Modifier represents a name with an optional value, such as a network rule
// option or a vendor selector modifier.
type Modifier struct {
	Name      *Value
	Value     *Value
	Exception bool
	Loc       *Loc
}

func (n *Modifier) Location() *Loc { return n.Loc }

// ModifierList represents an ordered list of modifiers.
type ModifierList struct {
	Children []*Modifier
	Loc      *Loc
}

func (n *ModifierList) Location() *Loc { return n.Loc }

// VendorSelector represents a selector with its vendor-specific modifiers
// extracted.
type VendorSelector struct {
	Selector  *Value
	Modifiers *ModifierList
	Loc       *Loc
}

func (n *VendorSelector) Location() *Loc { return n.Loc }

// PreProcessorComment represents a "!#name params" directive.
// Params is nil, an Expression, a *Value, a *ParameterList or a *Raw.
type PreProcessorComment struct {
	Name   *Value
	Params Node
	Loc    *Loc
}

func (n *PreProcessorComment) Location() *Loc { return n.Loc }
