package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/roshda/galaxy-o-meter/internal/app"
	"github.com/roshda/galaxy-o-meter/internal/domain"
)

const (
	barIndent    = 2
	minBarWidth  = 20
	maxBarWidth  = 80
	defaultWidth = 84
	barCell      = "█"
)

// Styles.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tooltipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("252"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func segmentStyle(c domain.Category) lipgloss.Style {
	switch c {
	case domain.CategoryPositive:
		return positiveStyle
	case domain.CategoryNeutral:
		return neutralStyle
	default:
		return negativeStyle
	}
}

// region is the cell range a segment occupies on screen. to is exclusive.
type region struct {
	ref  domain.SegmentRef
	row  int
	from int
	to   int
}

type screen struct {
	lines   []string
	regions []region
}

func (s screen) String() string {
	return strings.Join(s.lines, "\n")
}

// hitTest returns the segment under the cell at (x, y).
func (s screen) hitTest(x, y int) (domain.SegmentRef, bool) {
	for _, r := range s.regions {
		if r.row == y && x >= r.from && x < r.to {
			return r.ref, true
		}
	}
	return domain.SegmentRef{}, false
}

func barWidth(termWidth int) int {
	if termWidth <= 0 {
		termWidth = defaultWidth
	}
	return max(minBarWidth, min(maxBarWidth, termWidth-2*barIndent))
}

// cellRange maps a segment's fractions onto bar cells. Adjacent segments share
// their boundary cell, so the bar has no gaps and no overlap.
func cellRange(seg domain.Segment, width int) (int, int) {
	from := int(math.Round(seg.LeftOffsetFraction * float64(width)))
	to := int(math.Round((seg.LeftOffsetFraction + seg.WidthFraction) * float64(width)))
	from = max(0, min(width, from))
	to = max(from, min(width, to))
	return from, to
}

// render lays out the page view. Each entity gets a name row, a subtitle row, the
// bar, a tooltip slot row and a caption.
func render(view app.PageView, termWidth int) screen {
	var s screen
	add := func(line string) { s.lines = append(s.lines, line) }

	add(titleStyle.Render("Galaxy-O-Meter: How do the Fans Feel?"))
	add(dimStyle.Render("Fan sentiment from tweets about recent Star Wars shows."))
	add(dimStyle.Render("Source: " + view.RepositoryURL))
	add(toggleLine(view.NeutralVisible))
	add("")

	if view.Loading {
		add("Loading sentiment data...")
		add("")
		add(helpLine())
		return s
	}

	width := barWidth(termWidth)
	for _, entity := range view.Entities {
		add(nameStyle.Render(entity.Name) + " " + dimStyle.Render(entity.SearchURL))
		add(entity.Subtitle)

		row := len(s.lines)
		var bar strings.Builder
		bar.WriteString(strings.Repeat(" ", barIndent))
		for _, seg := range entity.Segments {
			from, to := cellRange(seg.Segment, width)
			if to > from {
				bar.WriteString(segmentStyle(seg.Category).Render(strings.Repeat(barCell, to-from)))
			}
			s.regions = append(s.regions, region{
				ref:  domain.SegmentRef{Entity: entity.Name, Category: seg.Category},
				row:  row,
				from: barIndent + from,
				to:   barIndent + to,
			})
		}
		add(bar.String())

		add(tooltipLine(view.Tooltip, entity.Name, barIndent+width))
		add(dimStyle.Render(entity.Caption))
		add("")
	}
	add(helpLine())
	return s
}

func toggleLine(neutralVisible bool) string {
	box := "[ ]"
	if neutralVisible {
		box = "[x]"
	}
	return box + " Show neutral sentiment"
}

func helpLine() string {
	return dimStyle.Render("n/space: toggle neutral • q: quit")
}

// tooltipLine draws the tooltip in the slot under its entity's bar, starting at
// the tooltip's left coordinate and pulled back so it fits within lineWidth.
func tooltipLine(t *app.TooltipView, entity string, lineWidth int) string {
	if t == nil || t.Segment.Entity != entity {
		return ""
	}
	col := int(math.Round(t.Left))
	col = min(col, lineWidth-lipgloss.Width(t.Text))
	col = max(col, 0)
	return strings.Repeat(" ", col) + tooltipStyle.Render(t.Text)
}
