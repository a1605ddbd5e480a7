package hooks

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/designdocs/pkg/render"
	"github.com/vango-dev/designdocs/pkg/vdom"
)

// Hook creates a hook attribute for an element.
// The config is serialized to JSON by the renderer.
func Hook(name string, config any) vdom.Attr {
	return vdom.Attr{
		Key:   render.HookProp,
		Value: render.HookConfig{Name: name, Config: config},
	}
}

// HookEvent represents an event triggered by a client hook.
type HookEvent struct {
	Key  string // element key the hook was attached to
	Name string
	Data map[string]any
}

// String returns the value under key formatted as text, or "".
func (e HookEvent) String(key string) string {
	if v, ok := e.Data[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// Float returns the numeric value under key, or 0. Numeric strings are
// parsed.
func (e HookEvent) Float(key string) float64 {
	if v, ok := e.Data[key]; ok {
		switch val := v.(type) {
		case float64:
			return val
		case int:
			return float64(val)
		case string:
			f, _ := strconv.ParseFloat(val, 64)
			return f
		}
	}
	return 0.0
}

// Handler consumes hook events of one name.
type Handler func(HookEvent)

// Router dispatches hook events to handlers registered by event name.
// It is not safe for concurrent use; sessions call it from their loop.
type Router struct {
	handlers map[string]Handler
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// On registers h for events named name, replacing any previous handler.
func (r *Router) On(name string, h Handler) {
	r.handlers[name] = h
}

// Dispatch routes e to its handler. It reports false when no handler
// is registered for the event name.
func (r *Router) Dispatch(e HookEvent) bool {
	h, ok := r.handlers[e.Name]
	if !ok {
		return false
	}
	h(e)
	return true
}
