package app

import "github.com/roshda/galaxy-o-meter/internal/domain"

// Controller owns one viewer's interaction state: the global neutral toggle and
// the hover tooltip. It is not safe for concurrent use; its owner drives it from
// a single goroutine.
type Controller struct {
	neutralVisible bool
	tooltip        *domain.Tooltip
}

func NewController() *Controller {
	return &Controller{neutralVisible: true}
}

// NeutralVisible reports whether the neutral category is shown.
func (c *Controller) NeutralVisible() bool {
	return c.neutralVisible
}

// ToggleNeutral flips neutral visibility for every entity and returns the new value.
// Hiding neutral removes its hit regions, so a tooltip on a neutral segment is cleared.
func (c *Controller) ToggleNeutral() bool {
	c.SetNeutralVisible(!c.neutralVisible)
	return c.neutralVisible
}

// SetNeutralVisible sets neutral visibility explicitly.
func (c *Controller) SetNeutralVisible(visible bool) {
	c.neutralVisible = visible
	if !visible && c.tooltip != nil && c.tooltip.Segment.Category == domain.CategoryNeutral {
		c.tooltip = nil
	}
}

// Enter shows a tooltip for ref at the pointer position, replacing any active one.
// The position is captured once; motion inside the region does not move it.
func (c *Controller) Enter(ref domain.SegmentRef, text string, x, y float64) {
	c.tooltip = &domain.Tooltip{Text: text, X: x, Y: y, Segment: ref}
}

// Leave clears the tooltip if it belongs to ref. A late leave for a segment that
// is no longer active is ignored.
func (c *Controller) Leave(ref domain.SegmentRef) bool {
	if c.tooltip == nil || c.tooltip.Segment != ref {
		return false
	}
	c.tooltip = nil
	return true
}

// Tooltip returns the active tooltip.
func (c *Controller) Tooltip() (domain.Tooltip, bool) {
	if c.tooltip == nil {
		return domain.Tooltip{}, false
	}
	return *c.tooltip, true
}

// State returns a snapshot of the view state.
func (c *Controller) State() domain.ViewState {
	state := domain.ViewState{NeutralVisible: c.neutralVisible}
	if c.tooltip != nil {
		t := *c.tooltip
		state.Tooltip = &t
	}
	return state
}
