// Package vtest provides helpers for testing site components and
// reveal trackers without a browser.
//
// ManualClock replaces wall-clock timers so transitions complete exactly
// when a test advances time. Reveal bundles a registry, a hook watcher, a
// manual clock and a change log into a ready reveal.Env:
//
//	h := vtest.NewReveal()
//	tr, _ := reveal.New(h.Env(), reveal.Options{ID: "card-1"})
//	tr.Mount()
//	h.Intersect(tr)
//	h.Clock.Advance(500 * time.Millisecond)
package vtest
