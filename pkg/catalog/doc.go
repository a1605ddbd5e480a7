// Package catalog builds the documentation pages: the token catalog, the
// component guidelines with their tabbed sections, and the token-name
// builder.
//
// Pages are vdom trees. Every section is wrapped by a reveal tracker
// created through the caller's *reveal.Scope, so the same page code
// serves live sessions (hook watcher) and static export (always
// visible). Tab panels render into a named child scope of the page scope
// and use stable reveal ids, so showing a tab again takes the fast path.
package catalog
