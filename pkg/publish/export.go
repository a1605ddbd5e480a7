package publish

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/designdocs/internal/errors"
	"github.com/vango-dev/designdocs/pkg/assets"
	"github.com/vango-dev/designdocs/pkg/catalog"
	"github.com/vango-dev/designdocs/pkg/render"
	"github.com/vango-dev/designdocs/pkg/reveal"
)

// StaticPrefix is the URL path and export directory of client assets.
const StaticPrefix = "static"

// immediateClock runs callbacks synchronously.
type immediateClock struct{}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

func (immediateClock) AfterFunc(_ time.Duration, f func()) reveal.Timer {
	f()
	return firedTimer{}
}

// StaticEnv returns a reveal environment for rendering pages without a
// live session.
func StaticEnv(logger *slog.Logger) reveal.Env {
	return reveal.Env{
		Registry: reveal.NewRegistry(),
		Watcher:  reveal.AlwaysVisible{},
		Clock:    immediateClock{},
		Logger:   logger,
	}
}

// Exporter writes every catalog page as <out>/<path>/index.html.
type Exporter struct {
	Site     *catalog.Site
	Renderer *render.Renderer

	// Assets are copied to <out>/static/ under both their source and
	// fingerprinted names. Usually clientdist.FS.
	Assets fs.FS

	// Manifest maps Assets to fingerprinted names. Computed from Assets
	// when nil.
	Manifest *assets.Manifest

	// StyleSheets are passed to every page. Defaults to site.css.
	StyleSheets []string

	Logger *slog.Logger
}

// Result summarizes an export.
type Result struct {
	Pages []string
	Files []string
}

// Export renders all pages into dir, creating it if needed.
func (e *Exporter) Export(ctx context.Context, dir string) (*Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	renderer := e.Renderer
	if renderer == nil {
		renderer = render.NewRenderer()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New("E300").WithDetail(dir).Wrap(err)
	}

	manifest := e.Manifest
	if manifest == nil && e.Assets != nil {
		var err error
		if manifest, err = assets.Fingerprint(e.Assets); err != nil {
			return nil, errors.FromError(err, "E300").WithDetail("fingerprinting assets")
		}
	}
	if manifest == nil {
		manifest = assets.NewManifest()
	}
	resolver := assets.NewResolver(manifest, "/"+StaticPrefix+"/")
	styleSheets := e.StyleSheets
	if styleSheets == nil {
		styleSheets = []string{resolver.Asset("site.css")}
	}

	res := &Result{}
	for _, p := range e.Site.Paths() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		// Each page is its own document, so each gets a fresh registry.
		scope := reveal.NewScope(StaticEnv(logger))
		page, err := e.Site.Resolve(scope, p, nil)
		if err != nil {
			return res, errors.New("E300").WithDetail(p).Wrap(err)
		}

		var buf bytes.Buffer
		err = renderer.RenderPage(&buf, render.PageData{
			Body:         page.Body,
			Title:        page.Title,
			Description:  page.Description,
			StyleSheets:  styleSheets,
			ClientScript: resolver.Asset("client.js"),
		})
		if err != nil {
			return res, errors.New("E300").WithDetail(p).Wrap(err)
		}

		file := pageFile(dir, p)
		if err := writeFile(file, buf.Bytes()); err != nil {
			return res, err
		}
		res.Pages = append(res.Pages, p)
		res.Files = append(res.Files, file)
		logger.Debug("publish: wrote page", "path", p, "file", file, "bytes", buf.Len())
	}

	if e.Assets != nil {
		err := fs.WalkDir(e.Assets, ".", func(name string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := fs.ReadFile(e.Assets, name)
			if err != nil {
				return err
			}
			names := []string{name}
			if hashed := manifest.Resolve(name); hashed != name {
				names = append(names, hashed)
			}
			for _, n := range names {
				file := filepath.Join(dir, StaticPrefix, filepath.FromSlash(n))
				if err := writeFile(file, data); err != nil {
					return err
				}
				res.Files = append(res.Files, file)
			}
			return nil
		})
		if err != nil {
			return res, errors.FromError(err, "E300").WithDetail("copying assets")
		}

		file := filepath.Join(dir, StaticPrefix, assets.ManifestFile)
		if err := manifest.WriteFile(file); err != nil {
			return res, errors.New("E300").WithDetail(file).Wrap(err)
		}
		res.Files = append(res.Files, file)
	}

	logger.Info("publish: export complete", "dir", dir, "pages", len(res.Pages), "files", len(res.Files))
	return res, nil
}

// pageFile maps a URL path to its index.html.
func pageFile(dir, urlPath string) string {
	rel := strings.Trim(urlPath, "/")
	return filepath.Join(dir, filepath.FromSlash(rel), "index.html")
}

func writeFile(file string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return errors.New("E300").WithDetail(file).Wrap(err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return errors.New("E300").WithDetail(file).Wrap(err)
	}
	return nil
}
