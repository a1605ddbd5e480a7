package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/designdocs/pkg/assets"
	"github.com/vango-dev/designdocs/pkg/catalog"
	"github.com/vango-dev/designdocs/pkg/middleware"
	"github.com/vango-dev/designdocs/pkg/render"
)

// Config holds server configuration and collaborators.
type Config struct {
	// Address is the address to listen on (e.g., ":3000").
	Address string

	// Site builds the pages. Required.
	Site *catalog.Site

	// Renderer renders pages and panels. Defaults to render.NewRenderer().
	Renderer *render.Renderer

	// Logger is the base logger. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics records request, session and reveal metrics. Optional.
	Metrics *middleware.Metrics

	// Gatherer, when set, is exposed at MetricsPath.
	Gatherer prometheus.Gatherer

	// MetricsPath is the route for the Prometheus endpoint.
	// Default: "/metrics".
	MetricsPath string

	// Tracing creates request and reveal spans. Optional.
	Tracing *middleware.Tracing

	// StyleSheets are linked from every page.
	// Default: the fingerprinted site.css.
	StyleSheets []string

	// Manifest maps embedded client files to fingerprinted names.
	// Default: computed from the embedded client at startup.
	Manifest *assets.Manifest

	// Dev enables development routes such as POST /debug/reveal/reset.
	Dev bool

	// CheckOrigin validates websocket upgrade requests.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// Sessions

	// AttachTimeout closes sessions whose client never connects.
	// Default: 30 seconds. Zero disables the check.
	AttachTimeout time.Duration

	// IdleTimeout closes attached sessions that received no frame for
	// this long. Default: 30 minutes. Zero disables the check.
	IdleTimeout time.Duration

	// MaxSessions caps concurrent sessions. Zero means no limit.
	MaxSessions int

	// CleanupInterval is how often expired sessions are swept.
	// Default: 5 seconds.
	CleanupInterval time.Duration

	// Connections

	// ReadTimeout is the maximum time to wait for a frame or pong.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a frame.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between pings.
	// Default: 20 seconds.
	HeartbeatInterval time.Duration

	// QueueSize is the buffer size of the dispatch and outbound queues.
	// Default: 256.
	QueueSize int

	// ShutdownTimeout bounds graceful shutdown in Run.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults. Site must still
// be set.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":3000",
		MetricsPath:       "/metrics",
		CheckOrigin:       SameOriginCheck,
		AttachTimeout:     30 * time.Second,
		IdleTimeout:       30 * time.Minute,
		CleanupInterval:   5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 20 * time.Second,
		QueueSize:         256,
		ShutdownTimeout:   10 * time.Second,
	}
}

// withDefaults returns a copy of c with zero tunables filled in.
// AttachTimeout and IdleTimeout keep their zero value, which disables them.
func (c *Config) withDefaults() *Config {
	out := *c
	d := DefaultConfig()
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.Renderer == nil {
		out.Renderer = render.NewRenderer()
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if out.MetricsPath == "" {
		out.MetricsPath = d.MetricsPath
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	if out.CleanupInterval <= 0 {
		out.CleanupInterval = d.CleanupInterval
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.HeartbeatInterval <= 0 {
		out.HeartbeatInterval = d.HeartbeatInterval
	}
	if out.QueueSize <= 0 {
		out.QueueSize = d.QueueSize
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	return &out
}

// SameOriginCheck accepts websocket upgrades whose Origin matches the
// request host. Requests without an Origin header are accepted.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}
