package reveal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Variant selects the hidden pose an element starts from.
type Variant string

const (
	FadeUp    Variant = "fade-up"
	FadeLeft  Variant = "fade-left"
	FadeRight Variant = "fade-right"
	Scale     Variant = "scale"
	Fade      Variant = "fade"
)

// Variants lists every supported variant.
var Variants = []Variant{FadeUp, FadeLeft, FadeRight, Scale, Fade}

// offset is the travel distance, in pixels, of the sliding variants.
const offset = 30

// ParseVariant parses a variant name. The empty string means FadeUp.
func ParseVariant(s string) (Variant, error) {
	if s == "" {
		return FadeUp, nil
	}
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("%w: variant %q", ErrInvalidOptions, s)
	}
	return v, nil
}

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	switch v {
	case FadeUp, FadeLeft, FadeRight, Scale, Fade:
		return true
	}
	return false
}

// Pose is a visual state: opacity plus a 2D translation and uniform scale.
type Pose struct {
	Opacity float64
	X, Y    float64 // px
	Scale   float64
}

// Resting is the pose every variant ends in.
var Resting = Pose{Opacity: 1, Scale: 1}

// Hidden returns the pose v starts from.
func (v Variant) Hidden() Pose {
	switch v {
	case FadeLeft:
		return Pose{X: offset, Scale: 1}
	case FadeRight:
		return Pose{X: -offset, Scale: 1}
	case Scale:
		return Pose{Scale: 0.95}
	case Fade:
		return Pose{Scale: 1}
	default:
		return Pose{Y: offset, Scale: 1}
	}
}

// Visible returns the pose v rests in.
func (v Variant) Visible() Pose { return Resting }

// CSS renders p as inline style declarations.
func (p Pose) CSS() string {
	return "opacity:" + num(p.Opacity) +
		";transform:translate3d(" + num(p.X) + "px," + num(p.Y) + "px,0) scale(" + num(p.Scale) + ")"
}

// Easing is the timing curve of every reveal transition (ease-out).
const Easing = "cubic-bezier(0,0,0.58,1)"

// transitionCSS is the CSS transition property for a reveal.
func transitionCSS(delay, duration time.Duration) string {
	d := seconds(duration)
	dl := seconds(delay)
	return "opacity " + d + " " + Easing + " " + dl + ",transform " + d + " " + Easing + " " + dl
}

func seconds(d time.Duration) string {
	return num(d.Seconds()) + "s"
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
