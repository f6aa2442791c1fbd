package app

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/roshda/galaxy-o-meter/internal/catalog"
	"github.com/roshda/galaxy-o-meter/internal/domain"
	"github.com/roshda/galaxy-o-meter/internal/layout"
)

const (
	DefaultSearchURLBase = "https://twitter.com/search"
	DefaultRepositoryURL = "https://github.com/roshda/galaxy-o-meter"
	DefaultAnalyzedAsOf  = "07/10/2024"

	// TooltipOffset is the distance in pixels (cells in the terminal) between the
	// pointer and the tooltip's top-left corner.
	TooltipOffset = 10
)

// PresenterConfig holds the presentation settings that are not part of the data.
type PresenterConfig struct {
	SearchURLBase string
	RepositoryURL string
	AnalyzedAsOf  string
}

// SegmentView is a bar segment ready for drawing.
type SegmentView struct {
	domain.Segment
	Label        string `json:"label"`
	Count        int    `json:"count"`
	WidthPercent string `json:"widthPercent"`
	LeftPercent  string `json:"leftPercent"`
	Tooltip      string `json:"tooltip"`
}

// EntityView is one entity's block: title link, subtitle, bar and caption.
type EntityView struct {
	Name       string           `json:"name"`
	SearchURL  string           `json:"searchUrl"`
	Subtitle   string           `json:"subtitle"`
	HasMeta    bool             `json:"hasMeta"`
	Bar        domain.BarLayout `json:"bar"`
	Segments   []SegmentView    `json:"segments"`
	TotalCount int              `json:"totalCount"`
	Caption    string           `json:"caption"`
}

// TooltipView is the floating tooltip, already offset from the pointer.
type TooltipView struct {
	Text    string            `json:"text"`
	Left    float64           `json:"left"`
	Top     float64           `json:"top"`
	Segment domain.SegmentRef `json:"segment"`
}

// PageView is the renderer-neutral description of the whole widget.
type PageView struct {
	State          string       `json:"state"`
	Loading        bool         `json:"loading"`
	NeutralVisible bool         `json:"neutralVisible"`
	RepositoryURL  string       `json:"repositoryUrl"`
	Entities       []EntityView `json:"entities"`
	Tooltip        *TooltipView `json:"tooltip"`
}

// Presenter maps catalog data and view state to a PageView.
type Presenter struct {
	cfg PresenterConfig
}

func NewPresenter(cfg PresenterConfig) *Presenter {
	if cfg.SearchURLBase == "" {
		cfg.SearchURLBase = DefaultSearchURLBase
	}
	if cfg.RepositoryURL == "" {
		cfg.RepositoryURL = DefaultRepositoryURL
	}
	if cfg.AnalyzedAsOf == "" {
		cfg.AnalyzedAsOf = DefaultAnalyzedAsOf
	}
	return &Presenter{cfg: cfg}
}

// Build renders the page view. A nil catalog means the data is still loading
// (or failed to load, which looks the same to the viewer).
func (p *Presenter) Build(cat *domain.Catalog, loadState domain.LoadState, state domain.ViewState) PageView {
	view := PageView{
		State:          loadState.String(),
		Loading:        cat == nil,
		NeutralVisible: state.NeutralVisible,
		RepositoryURL:  p.cfg.RepositoryURL,
		Tooltip:        p.BuildTooltip(state.Tooltip),
	}
	if cat == nil {
		return view
	}

	view.Entities = make([]EntityView, 0, cat.Len())
	for _, entry := range cat.Entries() {
		view.Entities = append(view.Entities, p.buildEntity(entry, state.NeutralVisible))
	}
	return view
}

func (p *Presenter) buildEntity(entry domain.CatalogEntry, neutralVisible bool) EntityView {
	bar := layout.Compute(entry.Record, neutralVisible)
	subtitle, hasMeta := catalog.Subtitle(entry.Name)

	segments := make([]SegmentView, 0, 3)
	for _, seg := range bar.Segments() {
		segments = append(segments, SegmentView{
			Segment:      seg,
			Label:        seg.Category.Label(),
			Count:        entry.Record.Count(seg.Category),
			WidthPercent: percent(seg.WidthFraction),
			LeftPercent:  percent(seg.LeftOffsetFraction),
			Tooltip:      tooltipText(seg.Category, entry.Record),
		})
	}

	total := entry.Record.TotalCount()
	return EntityView{
		Name:       entry.Name,
		SearchURL:  p.SearchURL(entry.Name),
		Subtitle:   subtitle,
		HasMeta:    hasMeta,
		Bar:        bar,
		Segments:   segments,
		TotalCount: total,
		Caption:    fmt.Sprintf("%d tweets analyzed as of %s", total, p.cfg.AnalyzedAsOf),
	}
}

// BuildTooltip positions a tooltip at the fixed offset from its pointer coordinates.
func (p *Presenter) BuildTooltip(t *domain.Tooltip) *TooltipView {
	if t == nil {
		return nil
	}
	return &TooltipView{
		Text:    t.Text,
		Left:    t.X + TooltipOffset,
		Top:     t.Y + TooltipOffset,
		Segment: t.Segment,
	}
}

// TooltipFor returns the tooltip text for a segment, validating that the segment
// is currently drawn.
func (p *Presenter) TooltipFor(cat *domain.Catalog, ref domain.SegmentRef, neutralVisible bool) (string, error) {
	if cat == nil {
		return "", domain.ErrCatalogNotLoaded
	}
	record, ok := cat.Get(ref.Entity)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownEntity, ref.Entity)
	}
	if _, err := domain.ParseCategory(string(ref.Category)); err != nil {
		return "", fmt.Errorf("%w: %q", err, ref.Category)
	}
	if ref.Category == domain.CategoryNeutral && !neutralVisible {
		return "", fmt.Errorf("%w: neutral", domain.ErrSegmentHidden)
	}
	return tooltipText(ref.Category, record), nil
}

// SearchURL builds the outbound keyword search link for an entity.
func (p *Presenter) SearchURL(name string) string {
	return p.cfg.SearchURLBase + "?q=" + encodeURIComponent(name) + "&src=typed_query"
}

func tooltipText(c domain.Category, record domain.SentimentRecord) string {
	return c.Label() + " count: " + strconv.Itoa(record.Count(c))
}

func percent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 4, 64)
}

// uriComponentUnescapes undoes the QueryEscape choices that encodeURIComponent
// does not make: space is %20 and !'()* stay literal.
var uriComponentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes like the browser function of the same name.
func encodeURIComponent(s string) string {
	return uriComponentUnescapes.Replace(url.QueryEscape(s))
}
