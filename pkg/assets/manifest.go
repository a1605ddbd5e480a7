// Package assets fingerprints static files so browsers and CDNs can cache
// them indefinitely.
//
// Fingerprint hashes every file of an fs.FS and records the mapping from
// source name to fingerprinted name:
//
//	{
//	  "client.js": "client.3f2a9c1e.js",
//	  "site.css": "site.90b1d4e7.css"
//	}
//
// Pages reference assets through a Resolver:
//
//	m, _ := assets.Fingerprint(clientdist.FS)
//	r := assets.NewResolver(m, "/static/")
//	r.Asset("client.js") // "/static/client.3f2a9c1e.js"
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
	"sync"
)

// ManifestFile is the name the static export writes the manifest under.
const ManifestFile = "manifest.json"

// hashLen is the number of hex digits kept from the content hash.
const hashLen = 8

var fingerprinted = regexp.MustCompile(`\.[0-9a-f]{8}(\.[A-Za-z0-9]+)?$`)

// Manifest holds the mapping from source asset paths to fingerprinted paths.
// It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
	sources map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
		sources: make(map[string]string),
	}
}

// Fingerprint hashes every regular file in fsys.
func Fingerprint(fsys fs.FS) (*Manifest, error) {
	m := NewManifest()
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		m.Set(name, FingerprintName(name, data))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FingerprintName inserts the content hash of data before the extension
// of name: "js/client.js" becomes "js/client.3f2a9c1e.js".
func FingerprintName(name string, data []byte) string {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])[:hashLen]
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + hash + ext
}

// IsFingerprinted reports whether name carries a content hash.
func IsFingerprinted(name string) bool {
	return fingerprinted.MatchString(name)
}

// Load reads a manifest written by WriteFile.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	m := NewManifest()
	for source, resolved := range entries {
		m.Set(source, resolved)
	}
	return m, nil
}

// WriteFile writes the manifest as JSON.
func (m *Manifest) WriteFile(path string) error {
	data, err := json.MarshalIndent(m.All(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Resolve returns the fingerprinted path for the given source path.
// If not found, returns the original path unchanged.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Source maps a fingerprinted path back to its source path.
func (m *Manifest) Source(resolved string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source, ok := m.sources[resolved]
	return source, ok
}

// Has returns true if the manifest contains the given source path.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry in the manifest.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.entries[source]; ok {
		delete(m.sources, old)
	}
	m.entries[source] = resolved
	m.sources[resolved] = source
}

// Len returns the number of entries in the manifest.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// All returns a copy of all manifest entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		result[k] = v
	}
	return result
}
