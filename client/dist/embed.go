// Package clientdist embeds the thin client served under /static/.
package clientdist

import "embed"

// FS holds client.js and site.css.
//
//go:embed client.js site.css
var FS embed.FS

// Files lists the embedded asset names.
var Files = []string{"client.js", "site.css"}
