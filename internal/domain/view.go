package domain

// SegmentRef identifies one segment's hit region: an entity's bar and a category.
type SegmentRef struct {
	Entity   string   `json:"entity"`
	Category Category `json:"category"`
}

// Tooltip is the floating hover label. X and Y are the pointer coordinates captured
// when the pointer entered the segment.
type Tooltip struct {
	Text    string     `json:"text"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Segment SegmentRef `json:"segment"`
}

// ViewState is the ephemeral per-viewer UI state.
type ViewState struct {
	NeutralVisible bool     `json:"neutralVisible"`
	Tooltip        *Tooltip `json:"tooltip,omitempty"`
}

// DefaultViewState returns the state every new viewer starts with.
func DefaultViewState() ViewState {
	return ViewState{NeutralVisible: true}
}

// LoadState is the lifecycle of the one-shot catalog read.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadLoaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}
