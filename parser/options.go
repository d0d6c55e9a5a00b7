package parser

import "github.com/filterlists/agtree/ast"

// Options configures a parse call. The zero value parses without locations
// at offset zero.
type Options struct {
	// IncludeLoc makes the parser record absolute ranges on every node.
	IncludeLoc bool

	// BaseOffset is added to every reported offset, so that a fragment of
	// a larger rule reports positions relative to the whole rule.
	BaseOffset int
}

// loc returns the absolute location of the relative range [start, end),
// or nil when locations are disabled.
func (o Options) loc(start, end int) *ast.Loc {
	if !o.IncludeLoc {
		return nil
	}
	return ast.NewLoc(o.BaseOffset+start, o.BaseOffset+end)
}

// shift returns options for a fragment starting at the relative offset.
func (o Options) shift(offset int) Options {
	o.BaseOffset += offset
	return o
}
