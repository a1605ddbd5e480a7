package reveal

// Watcher reports the first time an element intersects the viewport.
//
// onEnter fires at most once per Observe call. Calling stop before
// onEnter fires guarantees it never fires; calling stop afterwards is a
// no-op. Observations do not re-arm on later exits and entries.
type Watcher interface {
	Observe(key, rootMargin string, onEnter func()) (stop func())
}

type observation struct {
	key        string
	rootMargin string
	onEnter    func()
	stop       func() // set once delegated to another watcher
	done       bool
}

// HookWatcher observes through the client's IntersectionObserver. The
// element carries a ScrollReveal hook; the session feeds the client's
// intersect events to Deliver. Not safe for concurrent use.
type HookWatcher struct {
	pending map[string]*observation
}

// NewHookWatcher creates a HookWatcher with nothing observed.
func NewHookWatcher() *HookWatcher {
	return &HookWatcher{pending: make(map[string]*observation)}
}

// Observe implements Watcher.
func (w *HookWatcher) Observe(key, rootMargin string, onEnter func()) func() {
	obs := &observation{key: key, rootMargin: rootMargin, onEnter: onEnter}
	w.pending[key] = obs
	return func() {
		obs.done = true
		if w.pending[key] == obs {
			delete(w.pending, key)
		}
	}
}

// Deliver reports an intersection for key. It fires the observation's
// callback and forgets it. Unknown or already-delivered keys return false.
func (w *HookWatcher) Deliver(key string) bool {
	obs, ok := w.pending[key]
	if !ok {
		return false
	}
	delete(w.pending, key)
	if obs.done {
		return false
	}
	obs.done = true
	obs.onEnter()
	return true
}

// Pending returns the number of live observations.
func (w *HookWatcher) Pending() int {
	return len(w.pending)
}

// AlwaysVisible is the fallback for hosts without intersection support:
// every element counts as already on-screen, so onEnter fires inside
// Observe.
type AlwaysVisible struct{}

// Observe implements Watcher.
func (AlwaysVisible) Observe(_, _ string, onEnter func()) func() {
	onEnter()
	return func() {}
}

// Select picks the watcher for a host: the hook-backed observer when
// intersection is supported, the always-visible fallback otherwise.
func Select(intersectionSupported bool) Watcher {
	if intersectionSupported {
		return NewHookWatcher()
	}
	return AlwaysVisible{}
}

// CapabilityWatcher defers the choice between HookWatcher and
// AlwaysVisible until the client reports its capabilities. Observations
// made before Resolve are queued and handed over, in order, on resolution.
type CapabilityWatcher struct {
	hook     *HookWatcher
	selected Watcher
	queue    []*observation
}

// NewCapabilityWatcher creates an unresolved CapabilityWatcher.
func NewCapabilityWatcher() *CapabilityWatcher {
	return &CapabilityWatcher{hook: NewHookWatcher()}
}

// Observe implements Watcher.
func (w *CapabilityWatcher) Observe(key, rootMargin string, onEnter func()) func() {
	if w.selected != nil {
		return w.selected.Observe(key, rootMargin, onEnter)
	}
	obs := &observation{key: key, rootMargin: rootMargin, onEnter: onEnter}
	w.queue = append(w.queue, obs)
	return func() {
		obs.done = true
		if obs.stop != nil {
			obs.stop()
		}
	}
}

// Resolved reports whether Resolve has been called.
func (w *CapabilityWatcher) Resolved() bool {
	return w.selected != nil
}

// Supported reports whether the resolved watcher is hook-backed.
func (w *CapabilityWatcher) Supported() bool {
	return w.selected == Watcher(w.hook)
}

// Resolve selects the implementation. Only the first call has an effect.
// With supported false every queued observation fires immediately.
func (w *CapabilityWatcher) Resolve(supported bool) {
	if w.selected != nil {
		return
	}
	if supported {
		w.selected = w.hook
	} else {
		w.selected = AlwaysVisible{}
	}
	queue := w.queue
	w.queue = nil
	for _, obs := range queue {
		if obs.done {
			continue
		}
		obs.stop = w.selected.Observe(obs.key, obs.rootMargin, obs.onEnter)
	}
}

// Deliver forwards a client intersection to the hook watcher. Before
// resolution, or after resolving to the fallback, it returns false.
func (w *CapabilityWatcher) Deliver(key string) bool {
	if !w.Supported() {
		return false
	}
	return w.hook.Deliver(key)
}

// Pending returns the number of observations still waiting, queued or live.
func (w *CapabilityWatcher) Pending() int {
	n := w.hook.Pending()
	for _, obs := range w.queue {
		if !obs.done {
			n++
		}
	}
	return n
}
