// Package publish exports the site to static HTML and uploads an export
// to S3.
//
// Static pages are rendered with the always-visible watcher and a clock
// that completes transitions at once, so every tracked element is written
// in its resting pose and nothing depends on the client script.
package publish
