package reveal

import "github.com/vango-dev/designdocs/pkg/vdom"

// Scope groups the trackers created while rendering one subtree, such as
// a tab panel, so they can be unmounted together when it is replaced.
type Scope struct {
	env      Env
	trackers []*Tracker
	children []*Scope
	named    map[string]*Scope
}

// NewScope creates a root scope.
func NewScope(env Env) *Scope {
	return &Scope{env: env}
}

// Env returns the scope's environment.
func (s *Scope) Env() Env { return s.env }

// Child creates a scope whose trackers are also released by s.Unmount.
func (s *Scope) Child() *Scope {
	c := &Scope{env: s.env}
	s.children = append(s.children, c)
	return c
}

// Named returns the child scope registered under name, creating it on
// first use. Sessions use it to find a tab panel's trackers again.
func (s *Scope) Named(name string) *Scope {
	if c, ok := s.named[name]; ok {
		return c
	}
	c := s.Child()
	if s.named == nil {
		s.named = make(map[string]*Scope)
	}
	s.named[name] = c
	return c
}

// Reveal creates and mounts a tracker and returns its rendered container.
// If the tracker cannot be built, the children are returned unwrapped so
// the content still shows.
func (s *Scope) Reveal(opts Options, children ...any) *vdom.VNode {
	t, err := New(s.env, opts)
	if err != nil {
		logger := s.env.Logger
		if logger != nil {
			logger.Warn("reveal: rendering without tracker", "id", opts.ID, "error", err)
		}
		return vdom.Div(children...)
	}
	t.Mount()
	s.trackers = append(s.trackers, t)
	return t.Render(children...)
}

// Trackers returns the trackers created directly in s.
func (s *Scope) Trackers() []*Tracker {
	return s.trackers
}

// All returns the trackers of s and its descendants.
func (s *Scope) All() []*Tracker {
	all := append([]*Tracker(nil), s.trackers...)
	for _, c := range s.children {
		all = append(all, c.All()...)
	}
	return all
}

// Unmount unmounts every tracker in s and its descendants and empties
// the scope. The scope may be reused afterwards.
func (s *Scope) Unmount() {
	for _, c := range s.children {
		c.Unmount()
	}
	for _, t := range s.trackers {
		t.Unmount()
	}
	s.children = nil
	s.named = nil
	s.trackers = nil
}
