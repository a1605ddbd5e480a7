package reveal

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidOptions is returned for out-of-range tracker options.
var ErrInvalidOptions = errors.New("reveal: invalid options")

// ErrNoRegistry is returned when a tracker is built without a registry.
var ErrNoRegistry = errors.New("reveal: env has no registry")

const (
	// DefaultDuration is the transition length when none is given.
	DefaultDuration = 500 * time.Millisecond

	// DefaultRootMargin grows the viewport's bottom edge by 50px so the
	// transition starts just before the element scrolls on-screen.
	DefaultRootMargin = "0px 0px 50px 0px"
)

// Options configure a single tracked element.
type Options struct {
	// Variant is the start pose. Empty means FadeUp.
	Variant Variant

	// Delay is the wait after intersection before the transition starts.
	Delay time.Duration

	// Duration is the transition length. Zero means DefaultDuration.
	Duration time.Duration

	// ID is a stable identifier shared by every instance of one logical
	// element. Empty means the registry mints one.
	ID string

	// Class and Style pass through to the container unchanged.
	Class string
	Style string

	// RootMargin overrides DefaultRootMargin.
	RootMargin string
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	if o.Variant == "" {
		o.Variant = FadeUp
	}
	if o.Duration == 0 {
		o.Duration = DefaultDuration
	}
	if o.RootMargin == "" {
		o.RootMargin = DefaultRootMargin
	}
	return o
}

// Validate reports whether o, after defaults, is usable.
func (o Options) Validate() error {
	o = o.withDefaults()
	if !o.Variant.Valid() {
		return fmt.Errorf("%w: variant %q", ErrInvalidOptions, o.Variant)
	}
	if o.Delay < 0 {
		return fmt.Errorf("%w: negative delay %s", ErrInvalidOptions, o.Delay)
	}
	if o.Duration < 0 {
		return fmt.Errorf("%w: negative duration %s", ErrInvalidOptions, o.Duration)
	}
	return nil
}
