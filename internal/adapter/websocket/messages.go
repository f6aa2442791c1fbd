package websocket

import (
	"github.com/roshda/galaxy-o-meter/internal/app"
	"github.com/roshda/galaxy-o-meter/internal/domain"
)

// Client event types.
const (
	eventEnter  = "enter"
	eventLeave  = "leave"
	eventToggle = "toggle"
)

// Server frame types.
const (
	frameView    = "view"
	frameTooltip = "tooltip"
	frameError   = "error"
)

// maxEventBytes bounds a single client event.
const maxEventBytes = 4096

// clientEvent is a pointer or toggle event sent by the page script. Neutral is
// optional on toggle: when set it is applied instead of flipping.
type clientEvent struct {
	Type     string          `json:"type"`
	Entity   string          `json:"entity"`
	Category domain.Category `json:"category"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Neutral  *bool           `json:"neutral,omitempty"`
}

func (e clientEvent) ref() domain.SegmentRef {
	return domain.SegmentRef{Entity: e.Entity, Category: e.Category}
}

func eventLabel(t string) string {
	switch t {
	case eventEnter, eventLeave, eventToggle:
		return t
	default:
		return "unknown"
	}
}

type viewFrame struct {
	Type string `json:"type"`
	app.PageView
}

type tooltipFrame struct {
	Type    string           `json:"type"`
	Tooltip *app.TooltipView `json:"tooltip"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
