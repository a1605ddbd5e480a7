// Package standard holds the hooks the thin client ships with.
package standard
