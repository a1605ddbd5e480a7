package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	clientdist "github.com/vango-dev/designdocs/client/dist"
	"github.com/vango-dev/designdocs/internal/errors"
	"github.com/vango-dev/designdocs/pkg/assets"
	"github.com/vango-dev/designdocs/pkg/catalog"
	"github.com/vango-dev/designdocs/pkg/protocol"
	"github.com/vango-dev/designdocs/pkg/render"
	"github.com/vango-dev/designdocs/pkg/vdom"
)

// BrowserCookie names the cookie that ties page views of one browser to
// a shared reveal registry.
const BrowserCookie = "designdocs_browser"

// Server serves the site pages, the embedded client and the session
// websocket.
type Server struct {
	config   *Config
	sessions *Manager
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger
	manifest *assets.Manifest
	assets   assets.Resolver

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a Server. config.Site is required.
func New(config *Config) (*Server, error) {
	config = config.withDefaults()
	manifest := config.Manifest
	if manifest == nil {
		var err error
		if manifest, err = assets.Fingerprint(clientdist.FS); err != nil {
			return nil, err
		}
	}
	resolver := assets.NewResolver(manifest, "/static/")
	if config.Dev {
		resolver = assets.NewPassthroughResolver("/static/")
	}
	if config.StyleSheets == nil {
		config.StyleSheets = []string{resolver.Asset("site.css")}
	}

	s := &Server{
		manifest: manifest,
		assets:   resolver,
		config:   config,
		sessions: NewManager(config),
		logger:   config.Logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.config.Metrics.Handler)
	r.Use(s.config.Tracing.Handler)

	r.Get("/", s.handlePage)
	r.Get("/tokens/{kind}", s.handlePage)
	r.Get("/components/{name}", s.handlePage)
	r.Get("/components/{name}/{tab}", s.handlePage)
	r.Get("/tools/token-name", s.handlePage)

	r.Get("/ws", s.handleWebSocket)
	r.Handle("/static/*", http.StripPrefix("/static", assets.Handler(clientdist.FS, s.manifest)))
	r.Get("/healthz", s.handleHealth)

	if s.config.Gatherer != nil {
		r.Method(http.MethodGet, s.config.MetricsPath, promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	if s.config.Dev {
		r.Post("/debug/reveal/reset", s.handleRevealReset)
	}

	r.NotFound(s.handleNotFound)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session manager.
func (s *Server) Sessions() *Manager {
	return s.sessions
}

// handlePage renders a page into a fresh session of the requesting
// browser.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	// Reveal spans outlive the request, so only its span context is kept.
	traceCtx := trace.ContextWithSpanContext(context.Background(), trace.SpanContextFromContext(r.Context()))

	var browserID string
	if c, err := r.Cookie(BrowserCookie); err == nil {
		browserID = c.Value
	}
	sess, err := s.sessions.CreateFor(traceCtx, browserID)
	if err != nil {
		s.logger.Warn("session refused", "path", r.URL.Path, "error", err)
		http.Error(w, errors.FromError(err, "E213").Message, http.StatusServiceUnavailable)
		return
	}

	page, err := sess.Render(r.URL.Path, r.URL.Query())
	if err != nil {
		sess.Close()
		if stderrors.Is(err, catalog.ErrNotFound) {
			s.handleNotFound(w, r)
			return
		}
		s.logger.Error("render page", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = s.config.Renderer.RenderPage(&buf, render.PageData{
		Body:         page.Body,
		Title:        page.Title,
		Description:  page.Description,
		StyleSheets:  s.config.StyleSheets,
		SessionID:    sess.ID,
		ClientScript: s.assets.Asset("client.js"),
	})
	if err != nil {
		sess.Close()
		s.logger.Error("render document", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if sess.Browser != browserID {
		http.SetCookie(w, &http.Cookie{
			Name:     BrowserCookie,
			Value:    sess.Browser,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
	s.logger.Debug("page served", "path", r.URL.Path, "session_id", sess.ID,
		"browser", sess.Browser, "request_id", chimw.GetReqID(r.Context()))
}

// handleWebSocket attaches the client to the session named in the query.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		s.config.Metrics.RecordWebSocketError("upgrade")
		return
	}

	id := r.URL.Query().Get("session")
	sess := s.sessions.Get(id)
	if sess == nil {
		s.reject(conn, errors.New("E210").WithDetail(id))
		return
	}
	if err := sess.Attach(conn); err != nil {
		s.reject(conn, err)
	}
}

// reject sends a fatal error frame and closes conn.
func (s *Server) reject(conn *websocket.Conn, err error) {
	s.logger.Debug("websocket rejected", "error", err)
	s.config.Metrics.RecordWebSocketError("rejected")

	deadline := time.Now().Add(s.config.WriteTimeout)
	if data, encErr := protocol.Encode(protocol.ErrorFrame(err, true)); encErr == nil {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, errors.Code(err)),
		deadline)
	_ = conn.Close()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleRevealReset clears the registry shared by one session's browser,
// or that of every live session when no id is given.
func (s *Server) handleRevealReset(w http.ResponseWriter, r *http.Request) {
	targets := s.sessions.Sessions()
	if id := r.URL.Query().Get("session"); id != "" {
		sess := s.sessions.Get(id)
		if sess == nil {
			http.Error(w, errors.New("E210").Message, http.StatusNotFound)
			return
		}
		targets = []*Session{sess}
	}
	for _, sess := range targets {
		if err := sess.ResetReveals(); err != nil {
			s.logger.Debug("reset skipped", "session_id", sess.ID, "error", err)
		}
	}
	s.logger.Info("reveal registries reset", "sessions", len(targets))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	body := vdom.Main(vdom.Class("not-found"),
		vdom.H1("Page not found"),
		vdom.P("Nothing lives at "+r.URL.Path+"."),
		vdom.A(vdom.Href("/"), "Back to "+s.config.Site.Name()),
	)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = s.config.Renderer.RenderPage(w, render.PageData{
		Body:         body,
		Title:        "Not found",
		StyleSheets:  s.config.StyleSheets,
		ClientScript: s.assets.Asset("client.js"),
	})
}

// Run listens on config.Address and serves until ctx is cancelled, then
// shuts down within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	hs := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- hs.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		<-errCh
		return err
	}
}

// Shutdown closes all sessions and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.sessions.Shutdown(ctx); err != nil {
		s.logger.Error("session shutdown error", "error", err)
	}

	s.mu.Lock()
	hs := s.httpServer
	s.mu.Unlock()
	if hs != nil {
		if err := hs.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
