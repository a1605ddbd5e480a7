// Package reveal animates content into view the first time it scrolls
// into the viewport, and never again for the rest of the session.
//
// A Tracker wraps one element instance. It resolves an identifier (the
// caller's, or one minted by the Registry), renders the element in its
// variant's hidden pose, and asks a Watcher to report the first viewport
// intersection. On that event the identifier is claimed in the Registry and
// the element transitions to its resting pose over the configured delay and
// duration. Any later tracker that resolves to a claimed identifier
// renders in the resting pose immediately, with no watcher and no
// transition.
//
// # State machine
//
//	Unresolved ──▶ Hidden ──intersect──▶ Transitioning ──timer──▶ Revealed
//	     │                                                           ▲
//	     └──────────────── id already in registry ───────────────────┘
//
// Revealed is terminal.
//
// # Execution model
//
// A Tracker, its Watcher and the callbacks its Clock delivers must all run on
// one goroutine (a session event loop). Only the Registry is locked, so
// diagnostics may read it from elsewhere.
//
// # Fail open
//
// When the client cannot observe intersections, CapabilityWatcher resolves
// to AlwaysVisible and every pending element is treated as on-screen. Content
// is never left in the hidden pose for want of an observer.
package reveal
