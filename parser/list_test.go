package parser_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/filterlists/agtree/ast"
	"github.com/filterlists/agtree/parser"
)

// Ensure that domain lists are split into items.
func TestParseDomainList(t *testing.T) {
	var tests = []struct {
		s     string
		sep   byte
		items []*ast.ListItem
	}{
		{s: ``, sep: ',', items: nil},
		{s: `   `, sep: ',', items: nil},
		{s: `a,b,c`, sep: ',', items: []*ast.ListItem{
			{Type: ast.Domain, Value: "a"},
			{Type: ast.Domain, Value: "b"},
			{Type: ast.Domain, Value: "c"},
		}},
		{s: `~a,b`, sep: ',', items: []*ast.ListItem{
			{Type: ast.Domain, Value: "a", Exception: true},
			{Type: ast.Domain, Value: "b"},
		}},
		{s: ` example.com ,  ~example.org `, sep: ',', items: []*ast.ListItem{
			{Type: ast.Domain, Value: "example.com"},
			{Type: ast.Domain, Value: "example.org", Exception: true},
		}},
		{s: `a.com|~b.com`, sep: '|', items: []*ast.ListItem{
			{Type: ast.Domain, Value: "a.com"},
			{Type: ast.Domain, Value: "b.com", Exception: true},
		}},
		{s: `/a\,b/,c`, sep: ',', items: []*ast.ListItem{
			{Type: ast.Domain, Value: `/a\,b/`},
			{Type: ast.Domain, Value: "c"},
		}},
		{s: `a,b`, sep: '|', items: []*ast.ListItem{
			{Type: ast.Domain, Value: "a,b"},
		}},
	}

	for i, tt := range tests {
		list, err := parser.ParseDomainList(tt.s, tt.sep, parser.Options{})
		if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.s, err)
			continue
		}
		if list.Type != ast.DomainList || list.Separator != tt.sep {
			t.Errorf("%d. <%q> unexpected list: %#v", i, tt.s, list)
		}
		if diff := cmp.Diff(tt.items, list.Children); diff != "" {
			t.Errorf("%d. <%q> mismatch (-want +got):\n%s", i, tt.s, diff)
		}
	}
}

// Ensure that malformed lists are rejected at the right place.
func TestParseDomainList_Errors(t *testing.T) {
	var tests = []struct {
		s     string
		err   error
		start int
		end   int
	}{
		{s: `,a`, err: parser.ErrLeadingSeparator, start: 0, end: 1},
		{s: `  ,a`, err: parser.ErrLeadingSeparator, start: 2, end: 3},
		{s: `a,`, err: parser.ErrTrailingSeparator, start: 1, end: 2},
		{s: `a, `, err: parser.ErrTrailingSeparator, start: 1, end: 2},
		{s: `a,,b`, err: parser.ErrEmptyListItem, start: 2, end: 2},
		{s: `a, ,b`, err: parser.ErrEmptyListItem, start: 3, end: 3},
		{s: `~~a`, err: parser.ErrDoubleNegation, start: 0, end: 2},
		{s: `a,~,b`, err: parser.ErrNegationFollowedBySeparator, start: 2, end: 4},
		{s: `~ a`, err: parser.ErrNegationFollowedByWhitespace, start: 0, end: 2},
		{s: `a,~`, err: parser.ErrEmptyListItem, start: 2, end: 3},
	}

	for i, tt := range tests {
		_, err := parser.ParseDomainList(tt.s, ',', parser.Options{BaseOffset: 100})
		var e *parser.Error
		if !errors.As(err, &e) {
			t.Errorf("%d. <%q> expected *parser.Error, got %v", i, tt.s, err)
			continue
		}
		if !errors.Is(err, tt.err) {
			t.Errorf("%d. <%q> got %v, want %v", i, tt.s, e.Err, tt.err)
		}
		if e.Start != 100+tt.start || e.End != 100+tt.end {
			t.Errorf("%d. <%q> got range [%d,%d], want [%d,%d]", i, tt.s, e.Start, e.End, 100+tt.start, 100+tt.end)
		}
	}
}

// Ensure that locations are absolute and include the negation marker.
func TestParseList_Loc(t *testing.T) {
	list, err := parser.ParseList(`get| ~post`, '|', ast.MethodList, parser.Options{IncludeLoc: true, BaseOffset: 10})
	if err != nil {
		t.Fatal(err)
	}

	exp := &ast.List{
		Type:      ast.MethodList,
		Separator: '|',
		Children: []*ast.ListItem{
			{Type: ast.Method, Value: "get", Loc: ast.NewLoc(10, 13)},
			{Type: ast.Method, Value: "post", Exception: true, Loc: ast.NewLoc(15, 20)},
		},
		Loc: ast.NewLoc(10, 20),
	}
	if diff := cmp.Diff(exp, list); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// Ensure that the typed wrappers use the pipe separator and their item type.
func TestParseTypedLists(t *testing.T) {
	var tests = []struct {
		parse func(string, parser.Options) (*ast.List, error)
		typ   ast.ListType
		item  ast.ListItemType
	}{
		{parse: parser.ParseAppList, typ: ast.AppList, item: ast.App},
		{parse: parser.ParseMethodList, typ: ast.MethodList, item: ast.Method},
		{parse: parser.ParseStealthOptionList, typ: ast.StealthOptionList, item: ast.StealthOption},
	}

	for i, tt := range tests {
		list, err := tt.parse(`x|~y`, parser.Options{})
		if err != nil {
			t.Errorf("%d. unexpected error: %s", i, err)
			continue
		}
		if list.Type != tt.typ || list.Separator != '|' || len(list.Children) != 2 {
			t.Errorf("%d. unexpected list: %#v", i, list)
			continue
		}
		for _, item := range list.Children {
			if item.Type != tt.item {
				t.Errorf("%d. unexpected item type: %v", i, item.Type)
			}
		}
		if !list.Children[1].Exception || list.Children[1].Value != "y" {
			t.Errorf("%d. unexpected second item: %#v", i, list.Children[1])
		}
	}
}
