package assets

import (
	"io/fs"
	"net/http"
	"strings"
)

// ImmutableCache is the Cache-Control value for fingerprinted files.
const ImmutableCache = "public, max-age=31536000, immutable"

// Resolver provides asset path resolution.
// It combines manifest lookup with path prefixing.
type Resolver interface {
	// Asset resolves a source asset path to its full URL path.
	//
	// Example:
	//   resolver.Asset("client.js") → "/static/client.3f2a9c1e.js"
	Asset(source string) string
}

// manifestResolver wraps a Manifest to implement Resolver.
type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver from a Manifest with an optional path
// prefix, which is prepended to all resolved paths.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: m,
		prefix:   prefix,
	}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

// passthrough returns assets unchanged (for development mode).
type passthrough struct {
	prefix string
}

// NewPassthroughResolver creates a resolver that returns paths unchanged.
// The prefix is still applied, so dev and prod paths share a root:
//
//	assets.NewPassthroughResolver("/static/").Asset("client.js") // "/static/client.js"
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + source
}

// Handler serves fsys under both source and fingerprinted names.
// Fingerprinted requests are marked immutable; source names must be
// revalidated. Mount it behind http.StripPrefix.
func Handler(fsys fs.FS, m *Manifest) http.Handler {
	files := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if m != nil {
			if source, ok := m.Source(name); ok {
				w.Header().Set("Cache-Control", ImmutableCache)
				r2 := r.Clone(r.Context())
				r2.URL.Path = "/" + source
				r2.URL.RawPath = ""
				files.ServeHTTP(w, r2)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}
