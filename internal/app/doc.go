// Package app provides the application service layer.
//
// Orchestrates the widget's use cases: the one-shot catalog load, per-viewer interaction
// state and the renderer-neutral page view. Depends on domain interfaces, not concrete
// sources or transports.
package app
