// Package hooks provides client-side interaction hooks for site components.
//
// A hook hands a piece of behavior the server cannot perform itself
// (observing the viewport, writing to the clipboard) to the thin client,
// while the state stays on the server. The client reports back with
// hook events, which arrive as HookEvent values.
//
// Usage:
//
//	Div(
//	    hooks.Hook("ScrollReveal", map[string]any{"key": "r1"}),
//	)
package hooks
