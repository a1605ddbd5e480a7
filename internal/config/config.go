package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/designdocs/internal/errors"
	"github.com/vango-dev/designdocs/pkg/reveal"
)

const (
	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default static export directory.
	DefaultOutput = "dist"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"
)

// ConfigFileNames are probed in order by Load.
var ConfigFileNames = []string{"designdocs.json", "designdocs.yaml", "designdocs.yml"}

// Config represents the complete designdocs configuration.
type Config struct {
	// Name is the site name shown in page titles.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Dev enables development-only endpoints (registry reset).
	Dev bool `json:"dev,omitempty" yaml:"dev,omitempty"`

	Server  ServerConfig  `json:"server,omitempty" yaml:"server,omitempty"`
	Session SessionConfig `json:"session,omitempty" yaml:"session,omitempty"`
	Reveal  RevealConfig  `json:"reveal,omitempty" yaml:"reveal,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	Log     LogConfig     `json:"log,omitempty" yaml:"log,omitempty"`
	Publish PublishConfig `json:"publish,omitempty" yaml:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// SessionConfig contains live session settings.
type SessionConfig struct {
	// AttachTimeout is how long a rendered page may take to open its
	// websocket before the session is dropped.
	AttachTimeout string `json:"attachTimeout,omitempty" yaml:"attachTimeout,omitempty"`

	// IdleTimeout drops attached sessions with no client frames.
	IdleTimeout string `json:"idleTimeout,omitempty" yaml:"idleTimeout,omitempty"`

	// MaxSessions caps live sessions; 0 means unlimited.
	MaxSessions int `json:"maxSessions,omitempty" yaml:"maxSessions,omitempty"`
}

// RevealConfig holds site-wide defaults for tracked elements.
type RevealConfig struct {
	Variant    string `json:"variant,omitempty" yaml:"variant,omitempty"`
	Delay      string `json:"delay,omitempty" yaml:"delay,omitempty"`
	Duration   string `json:"duration,omitempty" yaml:"duration,omitempty"`
	RootMargin string `json:"rootMargin,omitempty" yaml:"rootMargin,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// PublishConfig contains static export and S3 settings.
type PublishConfig struct {
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load looks for a config file in dir. A directory without one yields
// the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E100").WithDetail(path).Wrap(err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.New("E106").WithDetail(path)
	}
	if err != nil {
		return nil, errors.New("E101").WithDetail(path).Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration as JSON or YAML depending on the path.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E101").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E100").WithDetail(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "Design System"
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Session.AttachTimeout == "" {
		c.Session.AttachTimeout = "30s"
	}
	if c.Session.IdleTimeout == "" {
		c.Session.IdleTimeout = "30m"
	}
	if c.Reveal.Variant == "" {
		c.Reveal.Variant = string(reveal.FadeUp)
	}
	if c.Reveal.Delay == "" {
		c.Reveal.Delay = "0s"
	}
	if c.Reveal.Duration == "" {
		c.Reveal.Duration = reveal.DefaultDuration.String()
	}
	if c.Reveal.RootMargin == "" {
		c.Reveal.RootMargin = reveal.DefaultRootMargin
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "designdocs"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "designdocs"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Publish.Output == "" {
		c.Publish.Output = DefaultOutput
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E102").WithDetailf("port %d", c.Server.Port)
	}
	for name, value := range map[string]string{
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"session.attachTimeout":  c.Session.AttachTimeout,
		"session.idleTimeout":    c.Session.IdleTimeout,
	} {
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return errors.New("E103").WithDetailf("%s = %q", name, value)
		}
	}
	if c.Session.MaxSessions < 0 {
		return errors.New("E103").WithDetail("session.maxSessions must not be negative")
	}
	if _, err := c.RevealDefaults(); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E105").WithDetailf("log.format = %q", c.Log.Format)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ShutdownTimeout returns the parsed graceful shutdown bound.
func (c *Config) ShutdownTimeout() time.Duration {
	return mustDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// AttachTimeout returns the parsed session attach timeout.
func (c *Config) AttachTimeout() time.Duration {
	return mustDuration(c.Session.AttachTimeout, 30*time.Second)
}

// IdleTimeout returns the parsed session idle timeout.
func (c *Config) IdleTimeout() time.Duration {
	return mustDuration(c.Session.IdleTimeout, 30*time.Minute)
}

// RevealDefaults returns the reveal options every tracked element starts
// from. Pages override ID and, occasionally, Variant and Delay.
func (c *Config) RevealDefaults() (reveal.Options, error) {
	variant, err := reveal.ParseVariant(c.Reveal.Variant)
	if err != nil {
		return reveal.Options{}, errors.New("E104").WithDetailf("reveal.variant = %q", c.Reveal.Variant)
	}
	delay, err := time.ParseDuration(c.Reveal.Delay)
	if err != nil || delay < 0 {
		return reveal.Options{}, errors.New("E104").WithDetailf("reveal.delay = %q", c.Reveal.Delay)
	}
	duration, err := time.ParseDuration(c.Reveal.Duration)
	if err != nil || duration <= 0 {
		return reveal.Options{}, errors.New("E104").WithDetailf("reveal.duration = %q", c.Reveal.Duration)
	}
	return reveal.Options{
		Variant:    variant,
		Delay:      delay,
		Duration:   duration,
		RootMargin: c.Reveal.RootMargin,
	}, nil
}

// Logger builds the slog logger described by the log section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, errors.New("E105").WithDetailf("log.level = %q", s)
	}
	return level, nil
}

func mustDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
