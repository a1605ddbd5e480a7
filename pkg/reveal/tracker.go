package reveal

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/vango-dev/designdocs/pkg/features/hooks/standard"
	"github.com/vango-dev/designdocs/pkg/vdom"
)

// State is a tracker's position in the reveal state machine.
type State uint8

const (
	StateUnresolved State = iota
	StateHidden
	StateTransitioning
	StateRevealed
)

// String returns the lowercase state name used in data-reveal-state.
func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateHidden:
		return "hidden"
	case StateTransitioning:
		return "transitioning"
	case StateRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// Change describes one state transition.
type Change struct {
	Tracker *Tracker
	From    State
	To      State

	// FastPath is set when Revealed was reached without animating,
	// because the identifier was already claimed.
	FastPath bool
}

// Keys mints per-instance element keys ("r1", "r2", ...). Keys differ for
// every tracker even when two trackers share an identifier, so client
// events always name exactly one instance.
type Keys struct {
	n atomic.Uint64
}

// Next returns a fresh key.
func (k *Keys) Next() string {
	return "r" + strconv.FormatUint(k.n.Add(1), 10)
}

// Env carries the collaborators a tracker needs. One Env is shared by all
// trackers of a session.
type Env struct {
	Registry *Registry
	Watcher  Watcher
	Clock    Clock
	Keys     *Keys

	// OnChange, when set, is called after every state transition.
	OnChange func(Change)

	Logger *slog.Logger
}

func (e Env) normalize() (Env, error) {
	if e.Registry == nil {
		return e, ErrNoRegistry
	}
	if e.Watcher == nil {
		e.Watcher = AlwaysVisible{}
	}
	if e.Clock == nil {
		e.Clock = SystemClock{}
	}
	if e.Keys == nil {
		e.Keys = &Keys{}
	}
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	return e, nil
}

// Tracker wraps one element instance. See the package documentation for
// the state machine.
type Tracker struct {
	env  Env
	opts Options
	id   string
	key  string

	state   State
	mounted bool
	stop    func()
	timer   Timer
}

// New resolves the identifier for a new element instance and places the
// tracker in Hidden, or directly in Revealed when the identifier is
// already claimed. The identifier never changes afterwards.
func New(env Env, opts Options) (*Tracker, error) {
	env, err := env.normalize()
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t := &Tracker{
		env:   env,
		opts:  opts.withDefaults(),
		key:   env.Keys.Next(),
		state: StateUnresolved,
	}
	t.id = t.opts.ID
	if t.id == "" {
		t.id = env.Registry.MintID()
	}
	if env.Registry.Has(t.id) {
		t.transition(StateRevealed, true)
	} else {
		t.transition(StateHidden, false)
	}
	return t, nil
}

// ID returns the resolved identifier.
func (t *Tracker) ID() string { return t.id }

// Key returns the instance key the client uses to address this element.
func (t *Tracker) Key() string { return t.key }

// State returns the current state.
func (t *Tracker) State() State { return t.state }

// Options returns the tracker's options with defaults applied.
func (t *Tracker) Options() Options { return t.opts }

// Mounted reports whether the tracker is between Mount and Unmount.
func (t *Tracker) Mounted() bool { return t.mounted }

// Mount attaches the tracker. A tracker whose identifier is already
// claimed goes straight to Revealed and observes nothing; otherwise it
// starts watching for the first intersection.
func (t *Tracker) Mount() {
	if t.mounted {
		return
	}
	t.mounted = true

	if t.state == StateRevealed {
		return
	}
	if t.env.Registry.Has(t.id) {
		t.transition(StateRevealed, true)
		return
	}
	t.env.Logger.Debug("reveal: observing", "id", t.id, "key", t.key)
	stop := t.env.Watcher.Observe(t.key, t.opts.RootMargin, t.enter)
	if t.state == StateHidden {
		t.stop = stop
	}
}

// Unmount releases the watcher and any in-flight timer. A transition cut
// short leaves the tracker as it was; the registry keeps the claim made
// when the transition began.
func (t *Tracker) Unmount() {
	if !t.mounted {
		return
	}
	t.mounted = false
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// enter handles the first intersection.
func (t *Tracker) enter() {
	if !t.mounted || t.state != StateHidden {
		return
	}
	t.stop = nil

	// A second instance sharing an explicit id loses the claim and
	// settles without animating.
	if !t.env.Registry.Claim(t.id) {
		t.transition(StateRevealed, true)
		return
	}
	t.transition(StateTransitioning, false)
	t.timer = t.env.Clock.AfterFunc(t.opts.Delay+t.opts.Duration, t.complete)
}

// complete handles the end of the transition.
func (t *Tracker) complete() {
	t.timer = nil
	if !t.mounted || t.state != StateTransitioning {
		return
	}
	t.transition(StateRevealed, false)
}

func (t *Tracker) transition(to State, fastPath bool) {
	from := t.state
	if from == to || from == StateRevealed {
		return
	}
	t.state = to
	if t.env.OnChange != nil {
		t.env.OnChange(Change{Tracker: t, From: from, To: to, FastPath: fastPath})
	}
}

// Pose returns the pose for the current state.
func (t *Tracker) Pose() Pose {
	switch t.state {
	case StateTransitioning, StateRevealed:
		return t.opts.Variant.Visible()
	default:
		return t.opts.Variant.Hidden()
	}
}

// Transition returns the CSS transition property while Transitioning and
// "" otherwise.
func (t *Tracker) Transition() string {
	if t.state != StateTransitioning {
		return ""
	}
	return transitionCSS(t.opts.Delay, t.opts.Duration)
}

// Style returns the full inline style for the current state.
func (t *Tracker) Style() string {
	style := t.Pose().CSS()
	if tr := t.Transition(); tr != "" {
		style += ";transition:" + tr
	}
	if t.opts.Style != "" {
		style += ";" + t.opts.Style
	}
	return style
}

// Render renders the container for the current state. Rendering any
// number of times keeps the same identifier and key.
func (t *Tracker) Render(children ...any) *vdom.VNode {
	args := make([]any, 0, len(children)+7)
	args = append(args,
		vdom.Data("reveal-id", t.id),
		vdom.Data("reveal-key", t.key),
		vdom.Data("reveal-state", t.state.String()),
		vdom.Data("reveal-variant", string(t.opts.Variant)),
		vdom.Class(t.opts.Class),
		vdom.StyleAttr(t.Style()),
	)
	if t.state == StateHidden {
		args = append(args, standard.ScrollReveal(standard.ScrollRevealConfig{
			Key:        t.key,
			RootMargin: t.opts.RootMargin,
		}))
	}
	args = append(args, children...)
	return vdom.Div(args...)
}
