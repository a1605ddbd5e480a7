package vtest

import (
	"testing"

	"github.com/vango-dev/designdocs/pkg/reveal"
)

// Reveal is a self-contained reveal environment for tests.
type Reveal struct {
	Registry *reveal.Registry
	Watcher  *reveal.HookWatcher
	Clock    *ManualClock
	Keys     *reveal.Keys
	Changes  []reveal.Change
}

// NewReveal creates a harness with a fresh registry.
func NewReveal() *Reveal {
	return &Reveal{
		Registry: reveal.NewRegistry(),
		Watcher:  reveal.NewHookWatcher(),
		Clock:    NewClock(),
		Keys:     &reveal.Keys{},
	}
}

// Env returns an Env wired to the harness. Every change is appended to
// Changes.
func (h *Reveal) Env() reveal.Env {
	return reveal.Env{
		Registry: h.Registry,
		Watcher:  h.Watcher,
		Clock:    h.Clock,
		Keys:     h.Keys,
		OnChange: func(c reveal.Change) { h.Changes = append(h.Changes, c) },
	}
}

// Intersect simulates the client reporting that t entered the viewport.
// It reports whether an observation was waiting.
func (h *Reveal) Intersect(t *reveal.Tracker) bool {
	return h.Watcher.Deliver(t.Key())
}

// Transitions returns the recorded transitions of t as "from>to" pairs.
func (h *Reveal) Transitions(t *reveal.Tracker) []string {
	var out []string
	for _, c := range h.Changes {
		if c.Tracker == t {
			out = append(out, c.From.String()+">"+c.To.String())
		}
	}
	return out
}

// Animations counts transitions into Transitioning for identifier id.
func (h *Reveal) Animations(id string) int {
	n := 0
	for _, c := range h.Changes {
		if c.Tracker.ID() == id && c.To == reveal.StateTransitioning {
			n++
		}
	}
	return n
}

// ExpectState fails the test when t is not in state want.
func ExpectState(tb testing.TB, t *reveal.Tracker, want reveal.State) {
	tb.Helper()
	if got := t.State(); got != want {
		tb.Errorf("tracker %s state = %s, want %s", t.ID(), got, want)
	}
}
