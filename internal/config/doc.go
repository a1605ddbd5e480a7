// Package config loads designdocs configuration.
//
// Configuration lives in designdocs.json or designdocs.yaml at the project
// root. Every field is optional; New returns the defaults and a loaded
// file only overrides what it sets. Durations are Go duration strings.
//
//	{
//	  "server":  {"host": "0.0.0.0", "port": 8080},
//	  "session": {"attachTimeout": "30s", "idleTimeout": "30m"},
//	  "reveal":  {"variant": "fade-up", "duration": "500ms"},
//	  "metrics": {"enabled": true},
//	  "log":     {"level": "info", "format": "json"},
//	  "publish": {"bucket": "design-docs", "prefix": "site/"}
//	}
package config
