package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/designdocs/internal/config"
	"github.com/vango-dev/designdocs/internal/errors"
	"github.com/vango-dev/designdocs/pkg/catalog"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "designdocs",
		Short: "Design-system documentation server",
		Long: `designdocs serves a design-system documentation site.

Pages are rendered on the server and revealed as they scroll into view,
driven over a websocket by a thin client. The site can also be exported
to static HTML and published to S3.

Configuration is read from designdocs.json or designdocs.yaml in the
working directory, or from the file given with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: ./designdocs.{json,yaml})")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		serveCmd(opts),
		exportCmd(opts),
		publishCmd(opts),
		tokenCmd(),
		versionCmd(),
	)
	return rootCmd
}

// load reads and validates the configuration, applying the log flags.
func (o *rootOptions) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	return cfg, nil
}

// newSite builds the catalog from cfg. cfg must be valid.
func newSite(cfg *config.Config, logger *slog.Logger) (*catalog.Site, error) {
	defaults, err := cfg.RevealDefaults()
	if err != nil {
		return nil, err
	}
	return catalog.New(cfg.Name, defaults, logger), nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an indented info line.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
