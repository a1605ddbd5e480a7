package server

import (
	"context"
	"log/slog"
	"net/url"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/designdocs/internal/errors"
	"github.com/vango-dev/designdocs/pkg/catalog"
	"github.com/vango-dev/designdocs/pkg/features/hooks"
	"github.com/vango-dev/designdocs/pkg/features/hooks/standard"
	"github.com/vango-dev/designdocs/pkg/middleware"
	"github.com/vango-dev/designdocs/pkg/protocol"
	"github.com/vango-dev/designdocs/pkg/render"
	"github.com/vango-dev/designdocs/pkg/reveal"
)

// Session is one page view and its live connection. Tracker state of the
// page is owned by the session's event loop; the reveal registry belongs
// to the browser and is shared with its other page views.
type Session struct {
	// ID is the session identifier carried by the page's client script.
	ID string

	// Browser identifies the browser the page was served to.
	Browser string

	// CreatedAt is when the page was requested.
	CreatedAt time.Time

	config   *Config
	site     *catalog.Site
	renderer *render.Renderer
	metrics  *middleware.Metrics
	tracing  *middleware.Tracing
	logger   *slog.Logger

	// Loop-owned state. The registry is shared and guards itself.
	registry  *reveal.Registry
	watcher   *reveal.CapabilityWatcher
	scope     *reveal.Scope
	hooks     *hooks.Router
	rendering bool

	// traceCtx parents reveal spans under the page request's trace.
	traceCtx context.Context

	connMu sync.Mutex
	conn   *websocket.Conn

	out        chan []byte
	dispatchCh chan func()
	done       chan struct{}
	wg         sync.WaitGroup

	attached   atomic.Bool
	closed     atomic.Bool
	lastActive atomic.Int64

	onClose func(*Session)
}

func newSession(id, browserID string, registry *reveal.Registry, config *Config, traceCtx context.Context) *Session {
	if traceCtx == nil {
		traceCtx = context.Background()
	}
	now := time.Now()
	s := &Session{
		ID:         id,
		Browser:    browserID,
		CreatedAt:  now,
		config:     config,
		site:       config.Site,
		renderer:   config.Renderer,
		metrics:    config.Metrics,
		tracing:    config.Tracing,
		logger:     config.Logger.With("session_id", id),
		registry:   registry,
		watcher:    reveal.NewCapabilityWatcher(),
		hooks:      hooks.NewRouter(),
		traceCtx:   traceCtx,
		out:        make(chan []byte, config.QueueSize),
		dispatchCh: make(chan func(), config.QueueSize),
		done:       make(chan struct{}),
	}
	s.lastActive.Store(now.UnixNano())

	s.scope = reveal.NewScope(reveal.Env{
		Registry: s.registry,
		Watcher:  s.watcher,
		Clock:    reveal.DispatchClock{Dispatch: s.Dispatch},
		Keys:     &reveal.Keys{},
		OnChange: s.onChange,
		Logger:   s.logger,
	})

	s.hooks.On(standard.IntersectEvent, func(e hooks.HookEvent) {
		if !s.watcher.Deliver(e.Key) {
			s.logger.Debug("intersect for unknown key", "key", e.Key, "ratio", e.Float("ratio"))
			return
		}
		s.logger.Debug("element entered viewport", "key", e.Key, "ratio", e.Float("ratio"))
	})
	s.hooks.On(standard.CopiedEvent, func(e hooks.HookEvent) {
		s.logger.Info("token copied", "token", e.String("text"))
	})

	s.wg.Add(1)
	go s.eventLoop()
	return s
}

// Dispatch queues fn to run on the session's event loop. It blocks while
// the queue is full and drops fn once the session is closed.
func (s *Session) Dispatch(fn func()) {
	if s.closed.Load() {
		return
	}
	select {
	case s.dispatchCh <- fn:
	case <-s.done:
	}
}

// Run executes fn on the event loop and waits for it to return.
func (s *Session) Run(fn func()) error {
	finished := make(chan struct{})
	s.Dispatch(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-s.done:
		select {
		case <-finished:
			return nil
		default:
			return errors.New("E212").WithDetail(s.ID)
		}
	}
}

// Render builds the page at path into the session's root scope.
func (s *Session) Render(path string, query url.Values) (*catalog.Page, error) {
	var (
		page *catalog.Page
		err  error
	)
	runErr := s.Run(func() {
		s.rendering = true
		defer func() { s.rendering = false }()
		page, err = s.site.Resolve(s.scope, path, query)
	})
	if runErr != nil {
		return nil, runErr
	}
	return page, err
}

// ResetReveals clears the browser's registry so every element animates
// again on its next mount.
func (s *Session) ResetReveals() error {
	return s.Run(func() {
		reveal.ResetAll(s.registry)
		s.logger.Debug("reveal registry reset")
	})
}

// Revealed returns the identifiers claimed so far.
func (s *Session) Revealed() []string {
	return s.registry.IDs()
}

// Attached reports whether a websocket has attached.
func (s *Session) Attached() bool {
	return s.attached.Load()
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// LastActive returns the time of the last client frame, or the creation
// time when none has arrived.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// Attach binds conn to the session and starts its read and write loops.
// A session accepts a single connection for its lifetime.
func (s *Session) Attach(conn *websocket.Conn) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.closed.Load() {
		return errors.New("E212").WithDetail(s.ID)
	}
	if !s.attached.CompareAndSwap(false, true) {
		return errors.New("E211").WithDetail(s.ID)
	}
	s.conn = conn
	s.touch()

	s.wg.Add(2)
	go s.readLoop(conn)
	go s.writeLoop(conn)

	s.logger.Debug("session attached")
	return nil
}

// Close stops the session. Its trackers are unmounted by the event loop
// on the way out. Close is idempotent.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)

	s.connMu.Lock()
	conn := s.conn
	s.connMu.Unlock()
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}

	if s.onClose != nil {
		s.onClose(s)
	}
	s.logger.Debug("session closed")
}

// Wait blocks until every goroutine of a closed session has exited.
func (s *Session) Wait() {
	s.wg.Wait()
}

// onChange runs on the loop for every tracker transition.
func (s *Session) onChange(c reveal.Change) {
	s.metrics.RecordReveal(c)
	s.tracing.RecordReveal(s.traceCtx, c)

	// Rendered HTML already carries the state reached while building.
	if s.rendering {
		return
	}
	t := c.Tracker
	switch c.To {
	case reveal.StateTransitioning:
		s.write(&protocol.Transition{Key: t.Key(), Style: t.Style(), Transition: t.Transition()})
	case reveal.StateRevealed:
		s.write(&protocol.Revealed{Key: t.Key(), Style: t.Style()})
	}
}

// write queues a frame for the write loop. A full queue closes the
// session so the client falls back to showing everything.
func (s *Session) write(f protocol.ServerFrame) {
	if !s.attached.Load() || s.closed.Load() {
		return
	}
	data, err := protocol.Encode(f)
	if err != nil {
		s.logger.Error("encode frame", "type", f.FrameType(), "error", err)
		return
	}
	select {
	case s.out <- data:
		s.metrics.RecordFrame("out", string(f.FrameType()))
	case <-s.done:
	default:
		s.logger.Warn("outbound queue full, closing session", "type", f.FrameType())
		s.metrics.RecordWebSocketError("queue_full")
		s.Close()
	}
}

// handle runs a decoded client frame on the loop.
func (s *Session) handle(frame protocol.ClientFrame) {
	switch f := frame.(type) {
	case *protocol.Hello:
		s.hello(f.Caps)
	case *protocol.Hook:
		e := f.Event()
		if !s.hooks.Dispatch(e) {
			s.logger.Debug("unhandled hook event", "name", e.Name, "key", e.Key)
		}
	case *protocol.Tab:
		s.switchTab(f.Group, f.Tab)
	}
}

func (s *Session) hello(caps protocol.Caps) {
	if s.watcher.Resolved() {
		s.logger.Debug("duplicate hello ignored")
		return
	}
	s.watcher.Resolve(caps.IntersectionObserver)
	if !caps.IntersectionObserver {
		s.metrics.RecordFallback()
	}
	s.logger.Debug("capabilities resolved",
		"intersection_observer", caps.IntersectionObserver,
		"pending", s.watcher.Pending())
}

// switchTab replaces a component's tab panel. The old panel's trackers
// are unmounted first; ids already claimed reveal on the fast path.
func (s *Session) switchTab(group, tab string) {
	c, ok := catalog.LookupComponent(group)
	if ok {
		_, ok = c.Tab(tab)
	}
	if !ok {
		s.write(protocol.ErrorFrame(errors.New("E203").WithDetailf("%s/%s", group, tab), false))
		return
	}

	panel := s.scope.Named(group)
	panel.Unmount()

	s.rendering = true
	node, err := s.site.Panel(panel, group, tab)
	s.rendering = false
	if err != nil {
		s.write(protocol.ErrorFrame(errors.New("E203").Wrap(err), false))
		return
	}
	html, err := s.renderer.RenderToString(node)
	if err != nil {
		s.logger.Error("render panel", "group", group, "tab", tab, "error", err)
		return
	}
	s.write(&protocol.Replace{Target: catalog.PanelID(group), HTML: html})
}

// eventLoop runs dispatched work until the session closes.
func (s *Session) eventLoop() {
	defer s.wg.Done()
	defer s.scope.Unmount()

	for {
		select {
		case fn := <-s.dispatchCh:
			s.execute(fn)
		case <-s.done:
			return
		}
	}
}

func (s *Session) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in session loop", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// readLoop decodes client frames and dispatches them to the loop.
func (s *Session) readLoop(conn *websocket.Conn) {
	defer s.wg.Done()
	defer s.Close()

	// Oversize frames are read in full so they can be answered with E202.
	conn.SetReadLimit(2 * protocol.MaxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "error", err)
				s.metrics.RecordWebSocketError("read")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		s.touch()

		if msgType != websocket.TextMessage {
			s.write(protocol.ErrorFrame(errors.New("E200").WithDetail("binary frames are not accepted"), false))
			continue
		}
		frame, err := protocol.DecodeClient(data)
		if err != nil {
			s.logger.Debug("rejected frame", "error", err)
			s.metrics.RecordWebSocketError("decode")
			s.write(protocol.ErrorFrame(err, false))
			continue
		}
		s.metrics.RecordFrame("in", string(frame.FrameType()))
		s.Dispatch(func() { s.handle(frame) })
	}
}

// writeLoop owns all data writes to conn.
func (s *Session) writeLoop(conn *websocket.Conn) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-s.out:
			_ = conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("websocket write error", "error", err)
				s.metrics.RecordWebSocketError("write")
				s.Close()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout)); err != nil {
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}
