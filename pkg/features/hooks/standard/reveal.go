package standard

import (
	"github.com/vango-dev/designdocs/pkg/features/hooks"
	"github.com/vango-dev/designdocs/pkg/vdom"
)

// ScrollRevealHook is the client hook name for viewport observation.
const ScrollRevealHook = "ScrollReveal"

// IntersectEvent is the hook event the client sends on first intersection.
const IntersectEvent = "intersect"

// ScrollRevealConfig configures the ScrollReveal hook.
type ScrollRevealConfig struct {
	Key        string  `json:"key"`
	RootMargin string  `json:"rootMargin,omitempty"`
	Threshold  float64 `json:"threshold,omitempty"`
}

// ScrollReveal creates a ScrollReveal hook attribute. The client observes
// the element once and disconnects after the first intersection.
func ScrollReveal(config ScrollRevealConfig) vdom.Attr {
	return hooks.Hook(ScrollRevealHook, config)
}
