/*
Package agtree implements parsers for the building blocks of adblock filter
rules. This is meant to be a low-level library for turning rule fragments
such as selectors, domain lists, network options and preprocessor directives
into typed syntax trees with source locations.

This package can be used for building tools to validate, convert and compile
filter lists.


Basics

Parsing occurs in two steps for anything that contains CSS. First the scanner
breaks up the text into tokens covering the whole input, whitespace and
comments included. The token stream then annotates every token with its
nesting depth so that the grammars can jump over balanced blocks without
recounting parentheses.

Grammars that are not CSS, such as domain lists and logical expressions, work
directly on the text. Every parser accepts an Options value: IncludeLoc adds
locations to the nodes and BaseOffset shifts every reported offset, so that a
fragment cut out of a longer rule reports positions in the whole rule.


Abstract Syntax Tree

Every node implements ast.Node. Lists are represented by a List of ListItems,
each of which may be an exception ("~example.com"). A ParameterList keeps
empty slots as nil children so that the number of children is always the
number of separators plus one.

A logical expression is made of Variables combined by Operators ("!", "&&",
"||") and Parenthesis groups. Use ast.Evaluate to compute its value for a
set of defined variables.

A SelectorList contains one ComplexSelector per comma separated selector.
A complex selector is a flat sequence of simple selectors and the
combinators between them.

A VendorSelector is a selector with its vendor modifiers, such as
":style(...)" or ":matches-path(...)", split off into a ModifierList.


Errors

All syntax errors are returned as *parser.Error values carrying a message and
the absolute range of the offending text. The Err field holds one of the
package level sentinel errors so it can be checked with errors.Is.


Binary Format

The codec package serializes any tree into a compact binary form and back.
Strings that appear often in filter lists, such as platform names and
modifier names, are written as one byte indexes into fixed tables. The layout
is identified by codec.SchemaVersion.


*/
package agtree
