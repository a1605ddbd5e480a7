// Package tokens builds design-token names.
//
// A token name has five parts joined by dashes:
//
//	component-property-element-variant-state
//	button-color-background-primary-hover
//
// Component and property are required; empty trailing parts are dropped.
// Category presets fill property and element together.
package tokens
