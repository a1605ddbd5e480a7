// Package vdom is the virtual node tree the site's pages are built from.
//
// Pages are assembled with element constructors that accept attributes,
// child nodes, strings and components in any order:
//
//	Div(Class("card"),
//	    H2(Text("Color")),
//	    P("Tokens for surfaces, borders and text."),
//	)
//
// Trees are turned into HTML by package render. A node is never shared
// between two trees; constructors always allocate.
package vdom
