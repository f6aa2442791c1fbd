package domain

// Segment is one colored portion of a stacked bar. Fractions are relative to the
// full bar width.
type Segment struct {
	Category           Category `json:"category"`
	WidthFraction      float64  `json:"widthFraction"`
	LeftOffsetFraction float64  `json:"leftOffsetFraction"`
	RoundedLeft        bool     `json:"roundedLeft"`
	RoundedRight       bool     `json:"roundedRight"`
}

// BarLayout is the geometry of one entity's stacked bar.
// Neutral is nil when the neutral category is hidden.
type BarLayout struct {
	Positive Segment  `json:"positive"`
	Neutral  *Segment `json:"neutral,omitempty"`
	Negative Segment  `json:"negative"`
}

// Segments returns the present segments in left-to-right order.
func (b BarLayout) Segments() []Segment {
	if b.Neutral == nil {
		return []Segment{b.Positive, b.Negative}
	}
	return []Segment{b.Positive, *b.Neutral, b.Negative}
}

// Segment returns the segment for a category, or false when it is not present.
func (b BarLayout) Segment(c Category) (Segment, bool) {
	switch c {
	case CategoryPositive:
		return b.Positive, true
	case CategoryNegative:
		return b.Negative, true
	case CategoryNeutral:
		if b.Neutral == nil {
			return Segment{}, false
		}
		return *b.Neutral, true
	default:
		return Segment{}, false
	}
}
