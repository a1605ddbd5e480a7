// Package render turns vdom trees into HTML.
//
// Rendering is deterministic: attributes are written in sorted key order so
// the same tree always produces the same bytes. This matters for static
// export, where unchanged pages must produce unchanged objects.
//
// Client hooks attached with hooks.Hook are written as data-hook and
// data-hook-config attributes for the thin client to pick up.
package render
